package sim

import (
	"math"
)

// DemandBucket is one breakpoint of the charging-need table.
type DemandBucket struct {
	CumulativePercent float64 `yaml:"cumulative_percent"` // running total, in (0, 100]
	DistanceKm        float64 `yaml:"distance_km"`        // distance to recharge, >= 0
}

// DemandShare is a single bucket's own probability, the per-bucket form
// that CumulativeFromShares folds into breakpoints.
type DemandShare struct {
	SharePercent float64 `yaml:"share_percent"`
	DistanceKm   float64 `yaml:"distance_km"`
}

// DemandDistribution is a categorical table in listed order.
// Order is significant: ties resolve to the first breakpoint crossed.
type DemandDistribution []DemandBucket

// CumulativeFromShares accumulates per-bucket shares in table order.
func CumulativeFromShares(shares []DemandShare) DemandDistribution {
	out := make(DemandDistribution, 0, len(shares))
	cumulative := 0.0
	for _, s := range shares {
		cumulative += s.SharePercent
		out = append(out, DemandBucket{CumulativePercent: cumulative, DistanceKm: s.DistanceKm})
	}
	return out
}

// Validate checks the table is non-empty, non-decreasing, and totals
// 100 percent within DemandTotalTolerance.
func (d DemandDistribution) Validate() error {
	if len(d) == 0 {
		return invalid("demand_distribution must have at least one entry")
	}
	prev := 0.0
	for i, b := range d {
		if math.IsNaN(b.CumulativePercent) || b.CumulativePercent < prev {
			return invalid("demand_distribution[%d]: cumulative percent %g decreases from %g", i, b.CumulativePercent, prev)
		}
		if math.IsNaN(b.DistanceKm) || math.IsInf(b.DistanceKm, 0) || b.DistanceKm < 0 {
			return invalid("demand_distribution[%d]: distance_km must be finite and >= 0, got %g", i, b.DistanceKm)
		}
		prev = b.CumulativePercent
	}
	if math.Abs(d.Total()-100) > DemandTotalTolerance {
		return invalid("demand_distribution must total 100 (+/- %g), got %g", DemandTotalTolerance, d.Total())
	}
	return nil
}

// Total returns the last cumulative breakpoint.
func (d DemandDistribution) Total() float64 {
	if len(d) == 0 {
		return 0
	}
	return d[len(d)-1].CumulativePercent
}

// Sample maps a uniform draw in [0, 1) to a distance using FallbackZero.
func (d DemandDistribution) Sample(u float64) float64 {
	return d.SampleWithFallback(u, FallbackZero)
}

// SampleWithFallback scales u to [0, 100) and returns the distance of the
// first breakpoint strictly above it. A draw at or beyond Total resolves per
// policy: FallbackLast returns the last entry, anything else returns 0 km.
func (d DemandDistribution) SampleWithFallback(u float64, policy FallbackPolicy) float64 {
	r := u * 100
	for _, b := range d {
		if r < b.CumulativePercent {
			return b.DistanceKm
		}
	}
	if policy == FallbackLast && len(d) > 0 {
		return d[len(d)-1].DistanceKm
	}
	return 0
}

// Demand is one arrival's charging need.
type Demand struct {
	DistanceKm float64
	EnergyKwh  float64
	Intervals  int // occupied intervals; 0 means no occupancy
}

// DemandFor converts a distance into energy and an occupation duration.
func (c SimulationConfig) DemandFor(distanceKm float64) Demand {
	energy := distanceKm / 100 * c.EnergyPer100KmKwh
	hours := energy / c.ChargeRateKw
	return Demand{
		DistanceKm: distanceKm,
		EnergyKwh:  energy,
		Intervals:  int(math.Ceil(hours * float64(c.IntervalsPerHour))),
	}
}
