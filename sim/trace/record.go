// Package trace provides per-interval load profile recording.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// IntervalRecord captures the site state after one interval.
type IntervalRecord struct {
	Interval  int
	HourOfDay int
	Occupied  int     // chargepoints drawing power
	PowerKw   float64 // Occupied × charge rate
}

var csvHeader = []string{"interval", "hour_of_day", "occupied", "power_kw"}

// WriteCSV writes the recorded intervals with a header row.
func (st *SimulationTrace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing profile header: %w", err)
	}
	for _, r := range st.Intervals {
		row := []string{
			strconv.Itoa(r.Interval),
			strconv.Itoa(r.HourOfDay),
			strconv.Itoa(r.Occupied),
			strconv.FormatFloat(r.PowerKw, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing profile interval %d: %w", r.Interval, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
