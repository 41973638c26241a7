// Package montecarlo repeats independent charging-site simulations to
// estimate the spread of the concurrency factor.
package montecarlo

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chargesim/chargesim/sim"
)

// TrialsConfig controls a batch of independent runs.
type TrialsConfig struct {
	Seed        int64 // master seed; trial 0 uses it directly
	Trials      int   // number of runs (must be >= 1)
	Parallelism int   // max concurrent runs; <= 0 means GOMAXPROCS
}

// Trial is one run's outcome.
type Trial struct {
	Index  int
	Result sim.SimulationResult
}

// RunTrials runs tc.Trials independent simulations of cfg.
//
// Every trial owns its chargepoints and an RNG stream derived up front from
// the master seed, so results depend only on (cfg, seed, index) and are
// returned in index order regardless of scheduling. Cancelling ctx stops
// scheduling further trials and returns ctx's error.
func RunTrials(ctx context.Context, cfg sim.SimulationConfig, tc TrialsConfig) ([]Trial, error) {
	if tc.Trials < 1 {
		return nil, fmt.Errorf("%w: trials must be >= 1, got %d", sim.ErrInvalidConfig, tc.Trials)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	parallelism := tc.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	// PartitionedRNG is not thread-safe: derive every stream before fan-out.
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(tc.Seed))
	streams := make([]sim.RandomSource, tc.Trials)
	for i := range streams {
		streams[i] = rng.ForSubsystem(sim.SubsystemTrial(i))
	}

	logrus.Infof("Running %d trials (parallelism=%d, seed=%d)", tc.Trials, parallelism, tc.Seed)
	trials := make([]Trial, tc.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range trials {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := sim.RunSimulation(cfg, streams[i])
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			trials[i] = Trial{Index: i, Result: res}
			logrus.Debugf("trial %d: concurrency=%.4f energy=%.2f kWh", i, res.ConcurrencyFactor, res.TotalEnergyConsumedKwh)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return trials, nil
}
