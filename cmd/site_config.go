package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chargesim/chargesim/sim"
)

// resolveConfig builds the run configuration: reference defaults, then the
// --config file, then flags the user explicitly set. An unset flag's
// default never overwrites a file value.
func resolveConfig(cmd *cobra.Command) (sim.SimulationConfig, error) {
	site := sim.SiteConfig{SimulationConfig: sim.DefaultConfig()}
	if configPath != "" {
		loaded, err := sim.LoadSiteConfig(configPath)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		logrus.Infof("Loaded site config from %s", configPath)
		site = loaded
	}
	cfg := site.SimulationConfig

	flags := cmd.Flags()
	if flags.Changed("horizon") && flags.Changed("days") {
		return sim.SimulationConfig{}, fmt.Errorf("--horizon and --days are mutually exclusive")
	}
	if flags.Changed("chargepoints") {
		cfg.ChargepointCount = chargepointCount
	}
	if flags.Changed("charge-rate") {
		cfg.ChargeRateKw = chargeRateKw
	}
	if flags.Changed("intervals-per-hour") {
		cfg.HorizonIntervals = rescaleHorizon(site, intervalsPerHour)
		cfg.IntervalsPerHour = intervalsPerHour
	}
	if flags.Changed("horizon") {
		cfg.HorizonIntervals = horizon
	}
	if flags.Changed("days") {
		cfg.HorizonIntervals = horizonDays * cfg.IntervalsPerDay()
	}
	if flags.Changed("energy-per-100km") {
		cfg.EnergyPer100KmKwh = energyPer100Km
	}
	if flags.Changed("demand-fallback") {
		cfg.DemandFallback = sim.FallbackPolicy(demandFallback)
	}

	if err := cfg.Validate(); err != nil {
		return sim.SimulationConfig{}, err
	}
	return cfg, nil
}

// rescaleHorizon returns the horizon at a new resolution. A file-pinned
// horizon_intervals is kept as is; horizon_days keeps its day count; any
// other horizon keeps its span, rounded up to whole intervals.
// --horizon and --days are applied afterwards and still win.
func rescaleHorizon(site sim.SiteConfig, newIPH int) int {
	oldIPH := site.IntervalsPerHour
	switch {
	case site.HorizonIntervalsSet:
		return site.HorizonIntervals
	case site.HorizonDays > 0:
		return site.HorizonDays * sim.HoursPerDay * newIPH
	case oldIPH <= 0 || newIPH <= 0:
		// Validate reports the bad resolution
		return site.HorizonIntervals
	}
	return (site.HorizonIntervals*newIPH + oldIPH - 1) / oldIPH
}
