package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RandomSource yields uniform reals in [0, 1).
// *rand.Rand satisfies it; tests substitute scripted sequences.
type RandomSource interface {
	Float64() float64
}

// SimulationKey is the seed a user passes with --seed. A key plus a site
// config fixes every arrival and demand draw of a run, and of each trial.
type SimulationKey int64

// NewSimulationKey wraps a seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemRun names the stream a single `run` draws from. It is seeded
// with the key itself, so `run --seed N` and trial 0 of `trials --seed N`
// report the same year.
const SubsystemRun = "run"

// SubsystemTrial names the stream of trial id. Trial 0 is SubsystemRun.
func SubsystemTrial(id int) string {
	if id == 0 {
		return SubsystemRun
	}
	return fmt.Sprintf("trial_%d", id)
}

// PartitionedRNG hands out one independent stream per trial, keyed by name.
// Streams other than SubsystemRun are seeded with key ^ fnv1a64(name), so
// adding trials never shifts the draws of existing ones.
//
// Not safe for concurrent use: montecarlo derives every trial stream up
// front and gives each goroutine its own.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG returns an empty partition for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same *rand.Rand, mid-sequence.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemRun {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.streams[name] = rng
	return rng
}

// Key returns the seed this partition was built from.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
