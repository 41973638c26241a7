package trace

// HoursPerDay sizes the per-hour summary arrays.
const HoursPerDay = 24

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalIntervals int
	PeakPowerKw    float64
	PeakInterval   int // first interval at PeakPowerKw; -1 for an empty trace
	MeanPowerKw    float64
	LoadFactor     float64 // mean / peak; 0 when peak is 0

	HourlyPeakKw [HoursPerDay]float64
	HourlyMeanKw [HoursPerDay]float64

	// OccupancyDistribution maps occupied chargepoint count → intervals
	// spent at that count (a load-duration table).
	OccupancyDistribution map[int]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PeakInterval:          -1,
		OccupancyDistribution: make(map[int]int),
	}
	if st == nil || len(st.Intervals) == 0 {
		return summary
	}

	var hourlySum [HoursPerDay]float64
	var hourlyCount [HoursPerDay]int
	total := 0.0
	for _, r := range st.Intervals {
		total += r.PowerKw
		summary.OccupancyDistribution[r.Occupied]++
		if summary.PeakInterval < 0 || r.PowerKw > summary.PeakPowerKw {
			summary.PeakPowerKw = r.PowerKw
			summary.PeakInterval = r.Interval
		}
		if r.HourOfDay < 0 || r.HourOfDay >= HoursPerDay {
			continue
		}
		hourlySum[r.HourOfDay] += r.PowerKw
		hourlyCount[r.HourOfDay]++
		if r.PowerKw > summary.HourlyPeakKw[r.HourOfDay] {
			summary.HourlyPeakKw[r.HourOfDay] = r.PowerKw
		}
	}

	summary.TotalIntervals = len(st.Intervals)
	summary.MeanPowerKw = total / float64(summary.TotalIntervals)
	if summary.PeakPowerKw > 0 {
		summary.LoadFactor = summary.MeanPowerKw / summary.PeakPowerKw
	}
	for h := range hourlySum {
		if hourlyCount[h] > 0 {
			summary.HourlyMeanKw[h] = hourlySum[h] / float64(hourlyCount[h])
		}
	}
	return summary
}
