package hos

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every validation failure raised before a
// simulation starts.
var ErrInvalidInput = errors.New("invalid input")

// InvariantViolationError means the break-insertion loop reached a state the
// rules should make impossible. The run is aborted; Clock holds the counters
// at the moment of failure.
type InvariantViolationError struct {
	Leg       string
	Remaining float64
	Clock     DutyClock
	Reason    string
}

func (e *InvariantViolationError) Error() string {
	c := e.Clock
	return fmt.Sprintf(
		"hos invariant violated: %s (leg=%q remaining=%.4fh time=%s driving_since_rest=%.4f duty_since_rest=%.4f driving_since_break=%.4f cycle=%.4f miles_since_fuel=%.2f)",
		e.Reason, e.Leg, e.Remaining, c.CurrentTime.Format("2006-01-02T15:04:05Z07:00"),
		c.DrivingSinceRest, c.DutySinceRest, c.DrivingSinceBreak, c.CycleHoursUsed, c.MilesSinceFuel,
	)
}
