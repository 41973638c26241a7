package trace

// TraceLevel controls the verbosity of load profile tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelIntervals records one IntervalRecord per simulated interval.
	TraceLevelIntervals TraceLevel = "intervals"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelIntervals: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether anything should be recorded.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelIntervals
}

// SimulationTrace collects interval records during a simulation.
type SimulationTrace struct {
	Config    TraceConfig
	Intervals []IntervalRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// sizeHint preallocates room for that many intervals.
func NewSimulationTrace(config TraceConfig, sizeHint int) *SimulationTrace {
	if sizeHint < 0 || !config.Enabled() {
		sizeHint = 0
	}
	return &SimulationTrace{
		Config:    config,
		Intervals: make([]IntervalRecord, 0, sizeHint),
	}
}

// RecordInterval appends an interval record. No-op unless the level is intervals.
func (st *SimulationTrace) RecordInterval(record IntervalRecord) {
	if !st.Config.Enabled() {
		return
	}
	st.Intervals = append(st.Intervals, record)
}
