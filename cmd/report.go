package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chargesim/chargesim/sim"
	"github.com/chargesim/chargesim/sim/montecarlo"
	"github.com/chargesim/chargesim/sim/trace"
)

// printResult reports the four run outputs: power unrounded, energy and
// concurrency factor to two decimals.
func printResult(w io.Writer, res sim.SimulationResult) {
	fmt.Fprintln(w, "=== Simulation Results ===")
	fmt.Fprintf(w, "Theoretical Max Power Demand: %v kW\n", res.TheoreticalMaxPowerDemandKw)
	fmt.Fprintf(w, "Total Energy Consumed: %.2f kWh\n", res.TotalEnergyConsumedKwh)
	fmt.Fprintf(w, "Actual Max Power Demand: %v kW\n", res.ActualMaxPowerDemandKw)
	fmt.Fprintf(w, "Concurrency Factor: %.2f %%\n", res.ConcurrencyFactor*100)
}

func printRunStats(w io.Writer, m *sim.Metrics, cfg sim.SimulationConfig) {
	fmt.Fprintln(w, "=== Site Statistics ===")
	fmt.Fprintf(w, "Arrivals             : %d\n", m.Arrivals)
	fmt.Fprintf(w, "Charging Sessions    : %d\n", m.ChargingSessions)
	fmt.Fprintf(w, "Zero-Demand Arrivals : %d\n", m.ZeroDemandArrivals)
	fmt.Fprintf(w, "Utilization          : %.2f %%\n", m.Utilization(cfg.ChargepointCount)*100)
	if m.PeakInterval >= 0 {
		day := m.PeakInterval / cfg.IntervalsPerDay()
		fmt.Fprintf(w, "First Peak           : interval %d (day %d, hour %02d)\n",
			m.PeakInterval, day, sim.HourOfDay(m.PeakInterval, cfg.IntervalsPerHour))
	}
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Load Profile ===")
	fmt.Fprintf(w, "Mean Power           : %.2f kW\n", s.MeanPowerKw)
	fmt.Fprintf(w, "Load Factor          : %.2f %%\n", s.LoadFactor*100)
	fmt.Fprintln(w, "Hour  Mean kW  Peak kW")
	for h := range s.HourlyMeanKw {
		fmt.Fprintf(w, "%02d  %8.2f  %7v\n", h, s.HourlyMeanKw[h], s.HourlyPeakKw[h])
	}
}

func printTrialsSummary(w io.Writer, s montecarlo.Summary) {
	fmt.Fprintln(w, "=== Trial Summary ===")
	fmt.Fprintf(w, "Trials                      : %d\n", s.Trials)
	fmt.Fprintf(w, "Theoretical Max Power Demand: %v kW\n", s.TheoreticalMaxPowerDemandKw)
	fmt.Fprintf(w, "Highest Actual Peak         : %v kW\n", s.MaxActualPowerDemandKw)
	fmt.Fprintf(w, "Mean Energy Consumed        : %.2f kWh\n", s.MeanTotalEnergyKwh)
	fmt.Fprintf(w, "Concurrency Factor mean     : %.2f %% (std dev %.2f %%)\n", s.MeanConcurrencyFactor*100, s.StdDevConcurrencyFactor*100)
	fmt.Fprintf(w, "Concurrency Factor range    : %.2f %% .. %.2f %%\n", s.MinConcurrencyFactor*100, s.MaxConcurrencyFactor*100)
	fmt.Fprintf(w, "Concurrency Factor p50/p95  : %.2f %% / %.2f %%\n", s.P50ConcurrencyFactor*100, s.P95ConcurrencyFactor*100)
}

// runReport is the JSON shape written by `run --results-path`.
type runReport struct {
	Seed               int64                `json:"seed"`
	Result             sim.SimulationResult `json:"result"`
	Arrivals           int                  `json:"arrivals"`
	ChargingSessions   int                  `json:"charging_sessions"`
	ZeroDemandArrivals int                  `json:"zero_demand_arrivals"`
	Utilization        float64              `json:"utilization"`
	PeakInterval       int                  `json:"peak_interval"`
	MeanPowerKw        *float64             `json:"mean_power_kw,omitempty"`
	LoadFactor         *float64             `json:"load_factor,omitempty"`
}

func newRunReport(seed int64, res sim.SimulationResult, m *sim.Metrics, cfg sim.SimulationConfig, s *trace.TraceSummary) runReport {
	r := runReport{
		Seed:               seed,
		Result:             res,
		Arrivals:           m.Arrivals,
		ChargingSessions:   m.ChargingSessions,
		ZeroDemandArrivals: m.ZeroDemandArrivals,
		Utilization:        m.Utilization(cfg.ChargepointCount),
		PeakInterval:       m.PeakInterval,
	}
	if s != nil {
		r.MeanPowerKw = &s.MeanPowerKw
		r.LoadFactor = &s.LoadFactor
	}
	return r
}

// trialsReport is the JSON shape written by `trials --results-path`.
type trialsReport struct {
	Seed    int64                  `json:"seed"`
	Summary montecarlo.Summary     `json:"summary"`
	Results []sim.SimulationResult `json:"results"`
}

func newTrialsReport(seed int64, trials []montecarlo.Trial, s montecarlo.Summary) trialsReport {
	results := make([]sim.SimulationResult, len(trials))
	for i, t := range trials {
		results[i] = t.Result
	}
	return trialsReport{Seed: seed, Summary: s, Results: results}
}

// saveResults writes v as indented JSON to path.
func saveResults(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logrus.Debugf("Successfully wrote results to '%s'", path)
	return nil
}

// saveProfile writes the per-interval load profile as CSV.
func saveProfile(path string, st *trace.SimulationTrace) error {
	if st == nil {
		return fmt.Errorf("no load profile recorded")
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := st.WriteCSV(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logrus.Debugf("Successfully wrote load profile to '%s'", path)
	return nil
}
