package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chargesim/chargesim/sim"
	"github.com/chargesim/chargesim/sim/montecarlo"
	"github.com/chargesim/chargesim/sim/trace"
)

var (
	// CLI flags shared by run and trials
	seed             int64   // Seed for arrival and demand draws
	logLevel         string  // Log verbosity level
	configPath       string  // YAML site config file
	chargepointCount int     // Number of chargepoints
	chargeRateKw     float64 // Power per occupied chargepoint
	intervalsPerHour int     // Time resolution
	horizon          int     // Simulated intervals
	horizonDays      int     // Simulated days (alternative to horizon)
	energyPer100Km   float64 // Vehicle consumption in kWh per 100 km
	demandFallback   string  // Rounding fallback policy: zero or last
	resultsPath      string  // Optional JSON results file

	// run only
	traceLevel  string // Load profile trace level
	profilePath string // Optional CSV load profile file

	// trials only
	trials      int // Number of independent runs
	parallelism int // Concurrent runs (0 = GOMAXPROCS)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "chargesim",
	Short: "Monte Carlo load simulator for EV charging sites",
}

// runCmd executes a single seeded simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulated year and report the concurrency factor",
	Run: func(cmd *cobra.Command, args []string) {
		applyEnvDefaults(cmd)
		configureLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid site configuration: %v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, intervals", traceLevel)
		}
		if profilePath != "" {
			traceLevel = string(trace.TraceLevelIntervals)
		}

		startTime := time.Now()
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		s, err := sim.NewSimulator(cfg, rng.ForSubsystem(sim.SubsystemRun))
		if err != nil {
			logrus.Fatalf("Invalid site configuration: %v", err)
		}
		traceCfg := trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}
		if traceCfg.Enabled() {
			s.Trace = trace.NewSimulationTrace(traceCfg, cfg.HorizonIntervals)
		}

		res := s.Run()
		printResult(os.Stdout, res)
		printRunStats(os.Stdout, s.Metrics, cfg)

		var summary *trace.TraceSummary
		if s.Trace != nil {
			summary = trace.Summarize(s.Trace)
			printTraceSummary(os.Stdout, summary)
		}
		if profilePath != "" {
			if err := saveProfile(profilePath, s.Trace); err != nil {
				logrus.Fatalf("Failed to write load profile: %v", err)
			}
		}
		if resultsPath != "" {
			report := newRunReport(seed, res, s.Metrics, cfg, summary)
			if err := saveResults(resultsPath, report); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// trialsCmd repeats independent runs and reports the spread of results
var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "Run independent simulated years in parallel and summarize them",
	Run: func(cmd *cobra.Command, args []string) {
		applyEnvDefaults(cmd)
		configureLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid site configuration: %v", err)
		}

		startTime := time.Now()
		results, err := montecarlo.RunTrials(context.Background(), cfg, montecarlo.TrialsConfig{
			Seed:        seed,
			Trials:      trials,
			Parallelism: parallelism,
		})
		if err != nil {
			logrus.Fatalf("Trials failed: %v", err)
		}
		summary := montecarlo.Summarize(results)
		printTrialsSummary(os.Stdout, summary)

		if resultsPath != "" {
			if err := saveResults(resultsPath, newTrialsReport(seed, results, summary)); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
		}

		logrus.Infof("%d trials complete in %v.", len(results), time.Since(startTime))
	},
}

// configureLogging applies --log to the package-level logger
func configureLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerSiteFlags binds the shared site and output flags on cmd
func registerSiteFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()

	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival and demand draws")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML site config (flags override its values)")

	// Site configs
	cmd.Flags().IntVar(&chargepointCount, "chargepoints", def.ChargepointCount, "Number of chargepoints")
	cmd.Flags().Float64Var(&chargeRateKw, "charge-rate", def.ChargeRateKw, "Power per occupied chargepoint (kW)")
	cmd.Flags().IntVar(&intervalsPerHour, "intervals-per-hour", def.IntervalsPerHour, "Simulation intervals per hour")
	cmd.Flags().IntVar(&horizon, "horizon", def.HorizonIntervals, "Total simulation horizon (in intervals)")
	cmd.Flags().IntVar(&horizonDays, "days", 365, "Total simulation horizon (in days); exclusive with --horizon")
	cmd.Flags().Float64Var(&energyPer100Km, "energy-per-100km", def.EnergyPer100KmKwh, "Vehicle consumption (kWh per 100 km)")
	cmd.Flags().StringVar(&demandFallback, "demand-fallback", string(def.DemandFallback), "Outcome of demand draws beyond the table total (zero, last)")

	cmd.Flags().StringVar(&resultsPath, "results-path", "", "Write results as JSON to this file")
}

// init sets up CLI flags and subcommands
func init() {
	registerSiteFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Load profile trace level (none, intervals)")
	runCmd.Flags().StringVar(&profilePath, "profile-path", "", "Write the per-interval load profile as CSV (implies --trace-level intervals)")

	registerSiteFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&trials, "trials", 100, "Number of independent simulated runs")
	trialsCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Maximum concurrent runs (0 = GOMAXPROCS)")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(trialsCmd)
}
