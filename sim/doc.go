// Package sim provides the discrete-time Monte Carlo engine for an electric
// vehicle charging site.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - chargepoint.go: Chargepoint lifecycle (free → occupied → free) and state machine
//   - demand.go: categorical charging-need table, rounding fallback, energy conversion
//   - simulator.go: the interval loop driving arrivals into chargepoints
//
// # Architecture
//
// One run owns its Chargepoints and one RandomSource, and consumes draws in a
// fixed order (per interval, per chargepoint), so a seeded run is
// reproducible. Independent runs share nothing; sub-packages build on that:
//   - sim/montecarlo/: repeated trials on derived RNG streams, run in parallel
//   - sim/trace/: per-interval load profile recording
//
// # Key Interfaces
//   - RandomSource: uniform draws in [0, 1); *rand.Rand satisfies it
//   - ArrivalModel: per-interval arrival probability for an idle chargepoint
package sim
