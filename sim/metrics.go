// Accumulates run-wide totals: energy, peak power, and occupancy counters.

package sim

// SimulationResult is produced once per run.
type SimulationResult struct {
	TheoreticalMaxPowerDemandKw float64 `json:"theoretical_max_power_demand_kw"`
	TotalEnergyConsumedKwh      float64 `json:"total_energy_consumed_kwh"`
	ActualMaxPowerDemandKw      float64 `json:"actual_max_power_demand_kw"`
	ConcurrencyFactor           float64 `json:"concurrency_factor"` // actual / theoretical, in [0, 1]
}

// Metrics aggregates statistics about the simulation for final reporting.
// Only the energy and peak fields feed SimulationResult; the counters are
// diagnostics.
type Metrics struct {
	TotalEnergyKwh float64 // energy of every sampled demand, occupied or not
	PeakPowerKw    float64 // running max of per-interval site power
	PeakInterval   int     // first interval reaching PeakPowerKw, -1 if never above 0

	Arrivals           int   // accepted Bernoulli hits on free chargepoints
	ZeroDemandArrivals int   // arrivals that needed no charging intervals
	ChargingSessions   int   // arrivals that occupied a chargepoint
	OccupiedIntervals  int64 // sum over intervals of occupied chargepoints
	SimulatedIntervals int
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{PeakInterval: -1}
}

// RecordArrival folds one sampled demand into the totals.
func (m *Metrics) RecordArrival(d Demand) {
	m.Arrivals++
	m.TotalEnergyKwh += d.EnergyKwh
	if d.Intervals > 0 {
		m.ChargingSessions++
	} else {
		m.ZeroDemandArrivals++
	}
}

// RecordInterval folds one interval's site power into the running maximum.
func (m *Metrics) RecordInterval(interval, occupied int, powerKw float64) {
	m.SimulatedIntervals++
	m.OccupiedIntervals += int64(occupied)
	if powerKw > m.PeakPowerKw {
		m.PeakPowerKw = powerKw
		m.PeakInterval = interval
	}
}

// Utilization is the share of chargepoint-intervals spent occupied.
func (m *Metrics) Utilization(chargepoints int) float64 {
	if chargepoints <= 0 || m.SimulatedIntervals == 0 {
		return 0
	}
	return float64(m.OccupiedIntervals) / (float64(chargepoints) * float64(m.SimulatedIntervals))
}

// Result computes the concurrency factor and emits the run result.
func (m *Metrics) Result(cfg SimulationConfig) SimulationResult {
	theoretical := cfg.TheoreticalMaxPowerKw()
	res := SimulationResult{
		TheoreticalMaxPowerDemandKw: theoretical,
		TotalEnergyConsumedKwh:      m.TotalEnergyKwh,
		ActualMaxPowerDemandKw:      m.PeakPowerKw,
	}
	if theoretical > 0 {
		res.ConcurrencyFactor = m.PeakPowerKw / theoretical
	}
	return res
}
