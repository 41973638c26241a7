// Defines the Chargepoint state machine: one per physical charging slot.
// Tracks occupancy and the number of occupied intervals left.

package sim

import "fmt"

// ChargepointState represents the occupancy state of a chargepoint.
type ChargepointState string

const (
	StateFree     ChargepointState = "free"
	StateOccupied ChargepointState = "occupied"
)

// Chargepoint is Free, or Occupied with Remaining >= 1 intervals left.
// The zero value is a free chargepoint.
type Chargepoint struct {
	ID int

	state     ChargepointState
	remaining int
}

// NewChargepoints returns n free chargepoints with IDs 0..n-1.
func NewChargepoints(n int) []Chargepoint {
	cps := make([]Chargepoint, n)
	for i := range cps {
		cps[i] = Chargepoint{ID: i, state: StateFree}
	}
	return cps
}

// State returns the current state; the zero value reports StateFree.
func (cp *Chargepoint) State() ChargepointState {
	if cp.state == "" {
		return StateFree
	}
	return cp.state
}

// Remaining returns the occupied intervals left, 0 when free.
func (cp *Chargepoint) Remaining() int { return cp.remaining }

// IsOccupied reports whether the chargepoint is drawing power this interval.
func (cp *Chargepoint) IsOccupied() bool { return cp.State() == StateOccupied }

// Occupy moves a free chargepoint to Occupied(intervals). It is a no-op
// returning false when the chargepoint is already occupied or intervals < 1,
// so zero-energy arrivals leave it free.
func (cp *Chargepoint) Occupy(intervals int) bool {
	if cp.IsOccupied() || intervals < 1 {
		return false
	}
	cp.state = StateOccupied
	cp.remaining = intervals
	return true
}

// Tick consumes one occupied interval. It reports whether the chargepoint
// drew power during this interval; on the last interval it returns true and
// leaves the chargepoint free for the next one.
func (cp *Chargepoint) Tick() bool {
	if !cp.IsOccupied() {
		return false
	}
	cp.remaining--
	if cp.remaining == 0 {
		cp.state = StateFree
	}
	return true
}

func (cp *Chargepoint) String() string {
	if cp.IsOccupied() {
		return fmt.Sprintf("chargepoint %d: %s(%d)", cp.ID, StateOccupied, cp.remaining)
	}
	return fmt.Sprintf("chargepoint %d: %s", cp.ID, StateFree)
}
