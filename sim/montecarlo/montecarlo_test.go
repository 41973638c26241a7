package montecarlo

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargesim/chargesim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// shortConfig returns the reference site over two weeks.
func shortConfig() sim.SimulationConfig {
	cfg := sim.DefaultConfig()
	cfg.HorizonIntervals = 14 * cfg.IntervalsPerDay()
	return cfg
}

func TestRunTrials_TrialZeroMatchesSingleRun(t *testing.T) {
	// GIVEN a master seed
	cfg := shortConfig()
	seed := int64(42)

	// WHEN running trials and a single run with the same seed
	trials, err := RunTrials(context.Background(), cfg, TrialsConfig{Seed: seed, Trials: 3, Parallelism: 2})
	require.NoError(t, err)
	single, err := sim.RunSimulation(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)

	// THEN trial 0 reproduces the single run
	require.Len(t, trials, 3)
	assert.Equal(t, single, trials[0].Result)
	for i, tr := range trials {
		assert.Equal(t, i, tr.Index)
	}
}

func TestRunTrials_ParallelismDoesNotChangeResults(t *testing.T) {
	cfg := shortConfig()

	serial, err := RunTrials(context.Background(), cfg, TrialsConfig{Seed: 9, Trials: 6, Parallelism: 1})
	require.NoError(t, err)
	parallel, err := RunTrials(context.Background(), cfg, TrialsConfig{Seed: 9, Trials: 6, Parallelism: 4})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestRunTrials_TrialsAreIndependentStreams(t *testing.T) {
	trials, err := RunTrials(context.Background(), shortConfig(), TrialsConfig{Seed: 5, Trials: 4})
	require.NoError(t, err)

	distinct := map[float64]bool{}
	for _, tr := range trials {
		distinct[tr.Result.TotalEnergyConsumedKwh] = true
		assert.LessOrEqual(t, tr.Result.ConcurrencyFactor, 1.0)
		assert.GreaterOrEqual(t, tr.Result.ConcurrencyFactor, 0.0)
	}
	assert.Greater(t, len(distinct), 1, "independent trials should not all dispense identical energy")
}

func TestRunTrials_Rejects(t *testing.T) {
	_, err := RunTrials(context.Background(), shortConfig(), TrialsConfig{Trials: 0})
	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))

	cfg := shortConfig()
	cfg.ChargeRateKw = -1
	_, err = RunTrials(context.Background(), cfg, TrialsConfig{Trials: 2})
	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))
}

func TestRunTrials_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunTrials(ctx, shortConfig(), TrialsConfig{Seed: 1, Trials: 8, Parallelism: 2})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	mk := func(cf, energy float64) Trial {
		return Trial{Result: sim.SimulationResult{
			TheoreticalMaxPowerDemandKw: 100,
			ActualMaxPowerDemandKw:      cf * 100,
			ConcurrencyFactor:           cf,
			TotalEnergyConsumedKwh:      energy,
		}}
	}
	trials := []Trial{mk(0.2, 10), mk(0.4, 20), mk(0.6, 30), mk(0.8, 40)}

	s := Summarize(trials)

	assert.Equal(t, 4, s.Trials)
	assert.Equal(t, 100.0, s.TheoreticalMaxPowerDemandKw)
	assert.InDelta(t, 80.0, s.MaxActualPowerDemandKw, 1e-9)
	assert.InDelta(t, 25.0, s.MeanTotalEnergyKwh, 1e-12)
	assert.InDelta(t, 0.5, s.MeanConcurrencyFactor, 1e-12)
	assert.InDelta(t, 0.2581988897, s.StdDevConcurrencyFactor, 1e-9)
	assert.Equal(t, 0.2, s.MinConcurrencyFactor)
	assert.Equal(t, 0.8, s.MaxConcurrencyFactor)
	assert.Equal(t, 0.4, s.P50ConcurrencyFactor)
	assert.Equal(t, 0.8, s.P95ConcurrencyFactor)
}

func TestSummarize_SingleAndEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	s := Summarize([]Trial{{Result: sim.SimulationResult{ConcurrencyFactor: 0.3, TheoreticalMaxPowerDemandKw: 220}}})
	assert.Equal(t, 0.3, s.MeanConcurrencyFactor)
	assert.Equal(t, 0.0, s.StdDevConcurrencyFactor)
	assert.Equal(t, 0.3, s.P50ConcurrencyFactor)
}
