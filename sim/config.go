package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every SimulationConfig validation failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

const (
	// HoursPerDay is the length of the arrival table.
	HoursPerDay = 24

	// DemandTotalTolerance is how far the last cumulative breakpoint may sit
	// from 100 percent.
	DemandTotalTolerance = 0.05
)

// FallbackPolicy selects the outcome of a demand draw that lands beyond the
// last cumulative breakpoint (possible when the table sums to slightly under 100).
type FallbackPolicy string

const (
	// FallbackZero returns the zero-distance outcome: no energy, no occupancy.
	FallbackZero FallbackPolicy = "zero"
	// FallbackLast clamps to the last table entry.
	FallbackLast FallbackPolicy = "last"
)

// SimulationConfig holds every input of a single run. It is passed by value
// and never mutated by the simulator.
type SimulationConfig struct {
	ChargepointCount         int                // independent chargepoints (must be > 0)
	ChargeRateKw             float64            // power drawn by an occupied chargepoint (must be > 0)
	IntervalsPerHour         int                // time resolution (must be > 0)
	HorizonIntervals         int                // simulated steps (must be > 0)
	ArrivalProbabilityByHour []float64          // 24 hourly arrival probabilities per idle chargepoint
	DemandDistribution       DemandDistribution // cumulative (percent, km) breakpoints
	EnergyPer100KmKwh        float64            // vehicle consumption in kWh per 100 km (must be > 0)
	DemandFallback           FallbackPolicy     // "" behaves as FallbackZero
}

// ReferenceArrivalProbabilities is the hourly arrival table of the reference site.
var ReferenceArrivalProbabilities = []float64{
	0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, // 00:00 - 08:00
	0.0283, 0.0283, 0.0566, 0.0566, 0.0566, 0.0755, 0.0755, 0.0755, // 08:00 - 16:00
	0.1038, 0.1038, 0.1038, 0.0472, 0.0472, 0.0472, 0.0094, 0.0094, // 16:00 - 24:00
}

// ReferenceDemandDistribution is the reference charging-need table.
var ReferenceDemandDistribution = DemandDistribution{
	{CumulativePercent: 34.31, DistanceKm: 0},
	{CumulativePercent: 39.21, DistanceKm: 5},
	{CumulativePercent: 49.01, DistanceKm: 10},
	{CumulativePercent: 60.77, DistanceKm: 20},
	{CumulativePercent: 69.59, DistanceKm: 30},
	{CumulativePercent: 81.35, DistanceKm: 50},
	{CumulativePercent: 92.13, DistanceKm: 100},
	{CumulativePercent: 97.03, DistanceKm: 200},
	{CumulativePercent: 99.97, DistanceKm: 300},
}

// DefaultConfig returns the reference site: 20 chargepoints at 11 kW,
// 15-minute resolution over a non-leap year.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		ChargepointCount:         20,
		ChargeRateKw:             11,
		IntervalsPerHour:         4,
		HorizonIntervals:         365 * HoursPerDay * 4,
		ArrivalProbabilityByHour: append([]float64(nil), ReferenceArrivalProbabilities...),
		DemandDistribution:       append(DemandDistribution(nil), ReferenceDemandDistribution...),
		EnergyPer100KmKwh:        18,
		DemandFallback:           FallbackZero,
	}
}

// IntervalsPerDay returns the number of intervals in one simulated day.
func (c SimulationConfig) IntervalsPerDay() int {
	return HoursPerDay * c.IntervalsPerHour
}

// TheoreticalMaxPowerKw is the site draw with every chargepoint occupied.
func (c SimulationConfig) TheoreticalMaxPowerKw() float64 {
	return float64(c.ChargepointCount) * c.ChargeRateKw
}

// Validate checks every field once, before a run starts.
// All failures wrap ErrInvalidConfig.
func (c SimulationConfig) Validate() error {
	if c.ChargepointCount <= 0 {
		return invalid("chargepoint_count must be positive, got %d", c.ChargepointCount)
	}
	if err := validateFinitePositive("charge_rate_kw", c.ChargeRateKw); err != nil {
		return err
	}
	if c.IntervalsPerHour <= 0 {
		return invalid("intervals_per_hour must be positive, got %d", c.IntervalsPerHour)
	}
	if c.HorizonIntervals <= 0 {
		return invalid("horizon_intervals must be positive, got %d", c.HorizonIntervals)
	}
	if err := validateFinitePositive("energy_per_100km_kwh", c.EnergyPer100KmKwh); err != nil {
		return err
	}
	if len(c.ArrivalProbabilityByHour) != HoursPerDay {
		return invalid("arrival_probability_by_hour needs %d entries, got %d", HoursPerDay, len(c.ArrivalProbabilityByHour))
	}
	for hour, p := range c.ArrivalProbabilityByHour {
		perInterval := p / float64(c.IntervalsPerHour)
		if math.IsNaN(perInterval) || perInterval < 0 || perInterval > 1 {
			return invalid("arrival probability for hour %d is %g per interval; must be in [0, 1]", hour, perInterval)
		}
	}
	if err := c.DemandDistribution.Validate(); err != nil {
		return err
	}
	switch c.DemandFallback {
	case "", FallbackZero, FallbackLast:
	default:
		return invalid("unknown demand_fallback %q; valid: zero, last", c.DemandFallback)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func validateFinitePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid("%s must be a finite positive number, got %g", name, v)
	}
	return nil
}

// siteFile is the on-disk YAML shape. Pointer fields distinguish
// "absent" from zero so omitted keys keep the reference defaults.
type siteFile struct {
	ChargepointCount         *int           `yaml:"chargepoint_count"`
	ChargeRateKw             *float64       `yaml:"charge_rate_kw"`
	IntervalsPerHour         *int           `yaml:"intervals_per_hour"`
	HorizonIntervals         *int           `yaml:"horizon_intervals"`
	HorizonDays              *int           `yaml:"horizon_days"`
	ArrivalProbabilityByHour []float64      `yaml:"arrival_probability_by_hour"`
	DemandDistribution       []DemandBucket `yaml:"demand_distribution"`
	DemandShares             []DemandShare  `yaml:"demand_shares"`
	EnergyPer100KmKwh        *float64       `yaml:"energy_per_100km_kwh"`
	DemandFallback           *string        `yaml:"demand_fallback"`
}

// SiteConfig is a parsed site file: the layered SimulationConfig plus how
// the file gave its horizon, so later overrides can respect it.
type SiteConfig struct {
	SimulationConfig
	// HorizonIntervalsSet is true when the file pinned horizon_intervals.
	HorizonIntervalsSet bool
	// HorizonDays is the file's horizon_days, 0 when absent.
	HorizonDays int
}

// LoadConfig reads a YAML site file layered over DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// The result is not validated; NewSimulator does that before running.
func LoadConfig(path string) (SimulationConfig, error) {
	site, err := LoadSiteConfig(path)
	return site.SimulationConfig, err
}

// LoadSiteConfig is LoadConfig keeping the horizon origin.
func LoadSiteConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("reading site config: %w", err)
	}
	return ParseSiteConfig(data)
}

// ParseConfig decodes YAML site config bytes layered over DefaultConfig.
func ParseConfig(data []byte) (SimulationConfig, error) {
	site, err := ParseSiteConfig(data)
	return site.SimulationConfig, err
}

// ParseSiteConfig is ParseConfig keeping the horizon origin.
func ParseSiteConfig(data []byte) (SiteConfig, error) {
	var f siteFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return SiteConfig{}, fmt.Errorf("parsing site config: %w", err)
	}

	cfg := DefaultConfig()
	if f.ChargepointCount != nil {
		cfg.ChargepointCount = *f.ChargepointCount
	}
	if f.ChargeRateKw != nil {
		cfg.ChargeRateKw = *f.ChargeRateKw
	}
	if f.IntervalsPerHour != nil {
		cfg.IntervalsPerHour = *f.IntervalsPerHour
		// default horizon stays one year at the new resolution
		cfg.HorizonIntervals = 365 * cfg.IntervalsPerDay()
	}
	site := SiteConfig{}
	switch {
	case f.HorizonIntervals != nil && f.HorizonDays != nil:
		return SiteConfig{}, fmt.Errorf("parsing site config: horizon_intervals and horizon_days are mutually exclusive")
	case f.HorizonIntervals != nil:
		cfg.HorizonIntervals = *f.HorizonIntervals
		site.HorizonIntervalsSet = true
	case f.HorizonDays != nil:
		cfg.HorizonIntervals = *f.HorizonDays * cfg.IntervalsPerDay()
		site.HorizonDays = *f.HorizonDays
	}
	if f.ArrivalProbabilityByHour != nil {
		cfg.ArrivalProbabilityByHour = f.ArrivalProbabilityByHour
	}
	switch {
	case f.DemandDistribution != nil && f.DemandShares != nil:
		return SiteConfig{}, fmt.Errorf("parsing site config: demand_distribution and demand_shares are mutually exclusive")
	case f.DemandDistribution != nil:
		cfg.DemandDistribution = f.DemandDistribution
	case f.DemandShares != nil:
		cfg.DemandDistribution = CumulativeFromShares(f.DemandShares)
	}
	if f.EnergyPer100KmKwh != nil {
		cfg.EnergyPer100KmKwh = *f.EnergyPer100KmKwh
	}
	if f.DemandFallback != nil {
		cfg.DemandFallback = FallbackPolicy(*f.DemandFallback)
	}
	site.SimulationConfig = cfg
	return site, nil
}
