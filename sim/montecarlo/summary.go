package montecarlo

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the results of repeated trials.
type Summary struct {
	Trials int `json:"trials"`

	TheoreticalMaxPowerDemandKw float64 `json:"theoretical_max_power_demand_kw"`
	MaxActualPowerDemandKw      float64 `json:"max_actual_power_demand_kw"`
	MeanTotalEnergyKwh          float64 `json:"mean_total_energy_kwh"`

	MeanConcurrencyFactor   float64 `json:"mean_concurrency_factor"`
	StdDevConcurrencyFactor float64 `json:"stddev_concurrency_factor"`
	MinConcurrencyFactor    float64 `json:"min_concurrency_factor"`
	MaxConcurrencyFactor    float64 `json:"max_concurrency_factor"`
	P50ConcurrencyFactor    float64 `json:"p50_concurrency_factor"`
	P95ConcurrencyFactor    float64 `json:"p95_concurrency_factor"`
}

// Summarize computes statistics over trial results.
// Safe for an empty slice (returns a zero Summary).
func Summarize(trials []Trial) Summary {
	if len(trials) == 0 {
		return Summary{}
	}
	cf := make([]float64, len(trials))
	energy := make([]float64, len(trials))
	peaks := make([]float64, len(trials))
	for i, t := range trials {
		cf[i] = t.Result.ConcurrencyFactor
		energy[i] = t.Result.TotalEnergyConsumedKwh
		peaks[i] = t.Result.ActualMaxPowerDemandKw
	}

	s := Summary{
		Trials:                      len(trials),
		TheoreticalMaxPowerDemandKw: trials[0].Result.TheoreticalMaxPowerDemandKw,
		MaxActualPowerDemandKw:      floats.Max(peaks),
		MeanTotalEnergyKwh:          stat.Mean(energy, nil),
		MinConcurrencyFactor:        floats.Min(cf),
		MaxConcurrencyFactor:        floats.Max(cf),
	}
	if len(cf) > 1 {
		s.MeanConcurrencyFactor, s.StdDevConcurrencyFactor = stat.MeanStdDev(cf, nil)
	} else {
		s.MeanConcurrencyFactor = cf[0]
	}

	sort.Float64s(cf)
	s.P50ConcurrencyFactor = stat.Quantile(0.5, stat.Empirical, cf, nil)
	s.P95ConcurrencyFactor = stat.Quantile(0.95, stat.Empirical, cf, nil)
	return s
}
