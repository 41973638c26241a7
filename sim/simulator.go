// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chargesim/chargesim/sim/trace"
)

// Simulator is the core object that holds simulation time, chargepoint state,
// and the interval loop. It owns Chargepoints exclusively for the run.
type Simulator struct {
	Config SimulationConfig
	// Clock is the next interval to simulate.
	Clock int
	// Chargepoints are iterated in index order every interval.
	Chargepoints []Chargepoint
	Arrivals     ArrivalModel
	Metrics      *Metrics
	// Trace is nil unless the caller wants a load profile.
	Trace *trace.SimulationTrace

	demand DemandDistribution
	rng    RandomSource
}

// NewSimulator validates cfg and returns a simulator with every chargepoint free.
// rng is consumed in a fixed order: per interval, per chargepoint in index
// order, one arrival draw for each free chargepoint and one demand draw per hit.
func NewSimulator(cfg SimulationConfig, rng RandomSource) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}
	if cfg.DemandFallback != FallbackLast && cfg.DemandDistribution.Total() < 100 {
		logrus.Warnf("demand distribution totals %.4g%%; draws above it fall back to 0 km", cfg.DemandDistribution.Total())
	}
	return &Simulator{
		Config:       cfg,
		Chargepoints: NewChargepoints(cfg.ChargepointCount),
		Arrivals:     NewHourlyArrivalModel(cfg.ArrivalProbabilityByHour, cfg.IntervalsPerHour),
		Metrics:      NewMetrics(),
		demand:       cfg.DemandDistribution,
		rng:          rng,
	}, nil
}

// Done reports whether the horizon has been reached.
func (sim *Simulator) Done() bool {
	return sim.Clock >= sim.Config.HorizonIntervals
}

// Step simulates one interval and returns the site power drawn during it.
func (sim *Simulator) Step() float64 {
	interval := sim.Clock
	p := sim.Arrivals.Probability(interval)

	occupied := 0
	for i := range sim.Chargepoints {
		if sim.stepChargepoint(&sim.Chargepoints[i], p) {
			occupied++
		}
	}
	power := float64(occupied) * sim.Config.ChargeRateKw

	sim.Metrics.RecordInterval(interval, occupied, power)
	if sim.Trace != nil {
		sim.Trace.RecordInterval(trace.IntervalRecord{
			Interval:  interval,
			HourOfDay: HourOfDay(interval, sim.Config.IntervalsPerHour),
			Occupied:  occupied,
			PowerKw:   power,
		})
	}
	sim.Clock++
	return power
}

// stepChargepoint runs one transition: arrival on a free chargepoint first,
// then one interval of charging. It reports whether power was drawn, so an
// arrival charges in the same interval it occupies the chargepoint.
func (sim *Simulator) stepChargepoint(cp *Chargepoint, p float64) bool {
	if !cp.IsOccupied() && sim.rng.Float64() < p {
		distance := sim.demand.SampleWithFallback(sim.rng.Float64(), sim.Config.DemandFallback)
		d := sim.Config.DemandFor(distance)
		sim.Metrics.RecordArrival(d)
		cp.Occupy(d.Intervals)
	}
	return cp.Tick()
}

// Run steps through the remaining horizon and returns the result.
func (sim *Simulator) Run() SimulationResult {
	logrus.Infof("Starting simulation: %d chargepoints at %g kW, %d intervals (%d per hour)",
		sim.Config.ChargepointCount, sim.Config.ChargeRateKw, sim.Config.HorizonIntervals, sim.Config.IntervalsPerHour)
	perDay := sim.Config.IntervalsPerDay()
	for !sim.Done() {
		sim.Step()
		if sim.Clock%perDay == 0 {
			logrus.Debugf("[day %03d] energy=%.2f kWh peak=%g kW", sim.Clock/perDay, sim.Metrics.TotalEnergyKwh, sim.Metrics.PeakPowerKw)
		}
	}
	res := sim.Result()
	logrus.Infof("[interval %07d] Simulation ended", sim.Clock)
	return res
}

// Result reports the metrics accumulated so far.
func (sim *Simulator) Result() SimulationResult {
	return sim.Metrics.Result(sim.Config)
}

// RunSimulation validates cfg, runs the full horizon, and returns the result.
func RunSimulation(cfg SimulationConfig, rng RandomSource) (SimulationResult, error) {
	s, err := NewSimulator(cfg, rng)
	if err != nil {
		return SimulationResult{}, err
	}
	return s.Run(), nil
}
