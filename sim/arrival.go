package sim

// ArrivalModel gives the probability that an idle chargepoint receives a
// vehicle during an interval. Implementations must be pure.
type ArrivalModel interface {
	Probability(interval int) float64
}

// ArrivalFunc adapts a plain function to ArrivalModel.
type ArrivalFunc func(interval int) float64

// Probability calls f.
func (f ArrivalFunc) Probability(interval int) float64 { return f(interval) }

// HourOfDay maps an interval index to its hour, 0..23.
func HourOfDay(interval, intervalsPerHour int) int {
	return (interval % (HoursPerDay * intervalsPerHour)) / intervalsPerHour
}

// HourlyArrivalModel splits each hourly probability evenly across the
// intervals of that hour.
type HourlyArrivalModel struct {
	perInterval      []float64 // indexed by hour of day
	intervalsPerHour int
}

// NewHourlyArrivalModel precomputes per-interval probabilities.
// hourly must hold HoursPerDay entries; SimulationConfig.Validate guarantees it.
func NewHourlyArrivalModel(hourly []float64, intervalsPerHour int) *HourlyArrivalModel {
	perInterval := make([]float64, len(hourly))
	for h, p := range hourly {
		perInterval[h] = p / float64(intervalsPerHour)
	}
	return &HourlyArrivalModel{perInterval: perInterval, intervalsPerHour: intervalsPerHour}
}

// Probability returns the per-interval probability for the interval's hour of day.
func (m *HourlyArrivalModel) Probability(interval int) float64 {
	return m.perInterval[HourOfDay(interval, m.intervalsPerHour)]
}
