package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargesim/chargesim/sim"
)

// newTestCmd returns a command with freshly registered site flags,
// which also resets the flag globals to their defaults.
func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	registerSiteFlags(cmd)
	return cmd
}

func TestResolveConfig_DefaultsWithoutFlags(t *testing.T) {
	cfg, err := resolveConfig(newTestCmd())
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestResolveConfig_UnchangedFlagsKeepFileValues(t *testing.T) {
	// GIVEN a site file setting chargepoints and charge rate
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chargepoint_count: 6\ncharge_rate_kw: 22\n"), 0o644))
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	// WHEN only --charge-rate is passed explicitly
	require.NoError(t, cmd.Flags().Set("charge-rate", "7.4"))
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	// THEN the file's chargepoint count survives the unset flag's default
	assert.Equal(t, 6, cfg.ChargepointCount)
	assert.Equal(t, 7.4, cfg.ChargeRateKw)
}

func TestResolveConfig_HorizonFlags(t *testing.T) {
	t.Run("days", func(t *testing.T) {
		cmd := newTestCmd()
		require.NoError(t, cmd.Flags().Set("days", "7"))
		cfg, err := resolveConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 7*96, cfg.HorizonIntervals)
	})
	t.Run("intervals per hour keeps a year", func(t *testing.T) {
		cmd := newTestCmd()
		require.NoError(t, cmd.Flags().Set("intervals-per-hour", "12"))
		cfg, err := resolveConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 365*24*12, cfg.HorizonIntervals)
	})
	t.Run("explicit horizon wins", func(t *testing.T) {
		cmd := newTestCmd()
		require.NoError(t, cmd.Flags().Set("intervals-per-hour", "12"))
		require.NoError(t, cmd.Flags().Set("horizon", "100"))
		cfg, err := resolveConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.HorizonIntervals)
	})
	t.Run("file horizon intervals survive a resolution change", func(t *testing.T) {
		for _, h := range []int{100, 40} {
			path := filepath.Join(t.TempDir(), "site.yaml")
			require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("horizon_intervals: %d\n", h)), 0o644))
			cmd := newTestCmd()
			require.NoError(t, cmd.Flags().Set("config", path))
			require.NoError(t, cmd.Flags().Set("intervals-per-hour", "2"))

			cfg, err := resolveConfig(cmd)
			require.NoError(t, err)
			assert.Equal(t, h, cfg.HorizonIntervals)
			assert.Equal(t, 2, cfg.IntervalsPerHour)
		}
	})
	t.Run("file horizon days keep their day count", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.yaml")
		require.NoError(t, os.WriteFile(path, []byte("horizon_days: 2\n"), 0o644))
		cmd := newTestCmd()
		require.NoError(t, cmd.Flags().Set("config", path))
		require.NoError(t, cmd.Flags().Set("intervals-per-hour", "2"))

		cfg, err := resolveConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 2*24*2, cfg.HorizonIntervals)
	})
	t.Run("horizon and days conflict", func(t *testing.T) {
		cmd := newTestCmd()
		require.NoError(t, cmd.Flags().Set("horizon", "100"))
		require.NoError(t, cmd.Flags().Set("days", "1"))
		_, err := resolveConfig(cmd)
		assert.Error(t, err)
	})
}

func TestResolveConfig_InvalidFlagValue(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("chargepoints", "0"))

	_, err := resolveConfig(cmd)

	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))
}

func TestResolveConfig_DemandFallback(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("demand-fallback", "last"))
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, sim.FallbackLast, cfg.DemandFallback)
}

func TestResolveConfig_ReferenceSiteFile(t *testing.T) {
	// Skip if the example file is not available
	path := "../examples/reference_site.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("reference_site.yaml not found, skipping integration test")
	}

	// GIVEN the shipped reference site file
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	// WHEN resolved with no other flags
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	// THEN it matches the built-in reference configuration
	want := sim.DefaultConfig()
	assert.Equal(t, want.ChargepointCount, cfg.ChargepointCount)
	assert.Equal(t, want.HorizonIntervals, cfg.HorizonIntervals)
	assert.Equal(t, want.ArrivalProbabilityByHour, cfg.ArrivalProbabilityByHour)
	require.Len(t, cfg.DemandDistribution, len(want.DemandDistribution))
	for i := range want.DemandDistribution {
		assert.InDelta(t, want.DemandDistribution[i].CumulativePercent, cfg.DemandDistribution[i].CumulativePercent, 1e-9)
		assert.Equal(t, want.DemandDistribution[i].DistanceKm, cfg.DemandDistribution[i].DistanceKm)
	}
}

func TestRescaleHorizon_RoundsPartialIntervalsUp(t *testing.T) {
	site := sim.SiteConfig{SimulationConfig: sim.SimulationConfig{IntervalsPerHour: 4, HorizonIntervals: 5}}
	// 5 quarter-hours at half-hour resolution is 2.5 intervals
	assert.Equal(t, 3, rescaleHorizon(site, 2))
	assert.Equal(t, 15, rescaleHorizon(site, 12))
}
