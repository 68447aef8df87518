package hos

import (
	"errors"
	"fmt"
	"math"
	"time"

	"hos-logbook-service/internal/domain"
)

const (
	inspectionHours    = 0.25
	cargoHandlingHours = 1.0

	// Counters are float hours; values within epsilon of a limit count as reached.
	epsilon = 1e-9

	// Base loop budget per leg; iterationLimit adds a share proportional
	// to the leg length.
	maxIterations = 10_000
	// Upper bound on stops taken per shortest-cap span of driving.
	stopsPerSpan = 4

	defaultToPickupLabel  = "En route to Pickup"
	defaultToDropoffLabel = "En route to Dropoff"
)

// Waypoint is a named trip location. Coordinates are optional.
type Waypoint struct {
	Name        string
	Coordinates *domain.Coordinates
}

// Leg is a required stretch of driving. Label is used as the location of
// every interval and stop emitted while on the leg.
type Leg struct {
	Hours float64
	Label string
}

// Input describes one trip: pre-trip, drive to pickup, load, drive to
// dropoff, unload, post-trip.
type Input struct {
	StartTime        time.Time
	CurrentCycleUsed float64
	Origin           Waypoint
	Pickup           Waypoint
	Dropoff          Waypoint
	ToPickup         Leg
	ToDropoff        Leg
}

// Result is the schedule produced by Simulate. Clock is the final state.
type Result struct {
	Intervals []domain.DutyInterval
	Stops     []domain.Stop
	StartTime time.Time
	EndTime   time.Time
	Clock     DutyClock
}

// Engine turns required driving time into an HOS-compliant duty schedule.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return &Engine{rules: rules}, nil
}

func (e *Engine) Rules() Rules { return e.rules }

// Simulate runs the fixed trip sequence and returns the ordered, contiguous
// duty intervals and the stops annotating them.
//
// Input errors wrap ErrInvalidInput. An *InvariantViolationError means the
// engine reached a state its rules forbid; no partial schedule is returned.
func (e *Engine) Simulate(in Input) (*Result, error) {
	if err := e.validate(in); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	toPickup := in.ToPickup
	if toPickup.Label == "" {
		toPickup.Label = defaultToPickupLabel
	}
	toDropoff := in.ToDropoff
	if toDropoff.Label == "" {
		toDropoff.Label = defaultToDropoffLabel
	}

	s := &simulation{
		rules: e.rules,
		clock: DutyClock{
			CurrentTime:    in.StartTime,
			CycleHoursUsed: in.CurrentCycleUsed,
		},
	}

	s.emit(domain.StatusOnDutyNotDriving, inspectionHours, in.Origin.Name, "Pre-trip inspection")

	if err := s.drive(toPickup); err != nil {
		return nil, fmt.Errorf("simulate: drive to pickup: %w", err)
	}

	s.addStop(domain.StopPickup, in.Pickup.Name, in.Pickup.Coordinates, cargoHandlingHours, "Loading Cargo")
	s.emit(domain.StatusOnDutyNotDriving, cargoHandlingHours, in.Pickup.Name, "Loading")

	if err := s.drive(toDropoff); err != nil {
		return nil, fmt.Errorf("simulate: drive to dropoff: %w", err)
	}

	s.addStop(domain.StopDropoff, in.Dropoff.Name, in.Dropoff.Coordinates, cargoHandlingHours, "Unloading Cargo")
	s.emit(domain.StatusOnDutyNotDriving, cargoHandlingHours, in.Dropoff.Name, "Unloading")
	s.emit(domain.StatusOnDutyNotDriving, inspectionHours, in.Dropoff.Name, "Post-trip inspection")

	return &Result{
		Intervals: s.intervals,
		Stops:     s.stops,
		StartTime: in.StartTime,
		EndTime:   s.clock.CurrentTime,
		Clock:     s.clock,
	}, nil
}

func (e *Engine) validate(in Input) error {
	if in.StartTime.IsZero() {
		return fmt.Errorf("start time must be set: %w", ErrInvalidInput)
	}

	c := in.CurrentCycleUsed
	if math.IsNaN(c) || c < 0 || c > e.rules.CycleLimitHours {
		return fmt.Errorf(
			"current cycle used must be within [0, %v], got %v: %w",
			e.rules.CycleLimitHours, c, ErrInvalidInput,
		)
	}

	for _, leg := range []struct {
		name  string
		hours float64
	}{
		{"to pickup", in.ToPickup.Hours},
		{"to dropoff", in.ToDropoff.Hours},
	} {
		if math.IsNaN(leg.hours) || math.IsInf(leg.hours, 0) || leg.hours < 0 {
			return fmt.Errorf("leg %s: driving hours must be finite and non-negative, got %v: %w", leg.name, leg.hours, ErrInvalidInput)
		}
	}

	return nil
}

// simulation is the private state of one Simulate call.
type simulation struct {
	rules     Rules
	clock     DutyClock
	intervals []domain.DutyInterval
	stops     []domain.Stop
}

// emit appends an interval starting at the current simulated time and
// applies it to the clock.
func (s *simulation) emit(status domain.DutyStatus, hours float64, location, notes string) {
	start := s.clock.CurrentTime
	s.clock.apply(s.rules, status, hours)

	s.intervals = append(s.intervals, domain.DutyInterval{
		Status:   status,
		Start:    start,
		End:      s.clock.CurrentTime,
		Location: location,
		Notes:    notes,
	})
}

func (s *simulation) addStop(t domain.StopType, location string, coords *domain.Coordinates, hours float64, description string) {
	s.stops = append(s.stops, domain.Stop{
		Type:            t,
		Location:        location,
		Coordinates:     coords,
		Arrival:         s.clock.CurrentTime,
		DurationMinutes: int(math.Round(hours * 60)),
		Description:     description,
	})
}

// drive allocates the leg's driving time greedily, inserting one fuel stop,
// break or rest whenever a limit stops the current driving span.
func (s *simulation) drive(leg Leg) error {
	r := s.rules
	remaining := leg.Hours
	limit := s.iterationLimit(leg)

	for i := 0; remaining > epsilon; i++ {
		if i >= limit {
			return s.violation(leg, remaining, "iteration limit reached")
		}

		if reached(s.clock.CycleHoursUsed, r.CycleLimitHours) {
			s.addStop(domain.StopRest, leg.Label, nil, r.RestartHours, fmt.Sprintf("%g-Hour Cycle Restart", r.RestartHours))
			s.emit(domain.StatusOffDuty, r.RestartHours, leg.Label, fmt.Sprintf("%g-Hour Restart", r.RestartHours))
			continue
		}

		if span := s.drivable(remaining); span > epsilon {
			s.emit(domain.StatusDriving, span, leg.Label, "")
			remaining -= span
		}

		if remaining <= epsilon {
			break
		}

		c := &s.clock
		switch {
		case reached(c.MilesSinceFuel, r.FuelIntervalMiles):
			s.addStop(domain.StopFuel, leg.Label, nil, r.FuelStopHours, "Fueling Stop")
			s.emit(domain.StatusOnDutyNotDriving, r.FuelStopHours, leg.Label, "Fueling")
			c.refuel()
		case reached(c.DrivingSinceBreak, r.BreakAfterDrivingHours):
			s.addStop(domain.StopBreak, leg.Label, nil, r.BreakHours, fmt.Sprintf("%g-Minute Rest Break", r.BreakHours*60))
			s.emit(domain.StatusOffDuty, r.BreakHours, leg.Label, fmt.Sprintf("%g-Min Break", r.BreakHours*60))
		case reached(c.DrivingSinceRest, r.MaxDrivingHours) || reached(c.DutySinceRest, r.DutyWindowHours):
			s.addStop(domain.StopRest, leg.Label, nil, r.DailyRestHours, fmt.Sprintf("%g-Hour Daily Rest", r.DailyRestHours))
			s.emit(domain.StatusOffDuty, r.DailyRestHours, leg.Label, fmt.Sprintf("%g-Hour Rest", r.DailyRestHours))
		case reached(c.CycleHoursUsed, r.CycleLimitHours):
			// The restart is taken at the top of the next iteration.
		default:
			return s.violation(leg, remaining, "driving remains but no stop condition holds")
		}
	}

	return nil
}

// iterationLimit bounds the loop for one leg. Every span of driving as long
// as the shortest cap costs at most stopsPerSpan iterations, so the budget
// grows linearly with the leg.
func (s *simulation) iterationLimit(leg Leg) int {
	r := s.rules
	shortest := min(
		r.MaxDrivingHours,
		r.DutyWindowHours,
		r.BreakAfterDrivingHours,
		r.FuelIntervalMiles/r.AverageSpeedMPH,
		r.CycleLimitHours,
	)

	extra := math.Ceil(leg.Hours/shortest) * stopsPerSpan
	if extra > math.MaxInt32 {
		extra = math.MaxInt32
	}
	return maxIterations + int(extra)
}

// drivable is the longest driving span allowed before the next limit.
func (s *simulation) drivable(remaining float64) float64 {
	r, c := s.rules, s.clock
	return min(
		remaining,
		r.MaxDrivingHours-c.DrivingSinceRest,
		r.DutyWindowHours-c.DutySinceRest,
		r.BreakAfterDrivingHours-c.DrivingSinceBreak,
		(r.FuelIntervalMiles-c.MilesSinceFuel)/r.AverageSpeedMPH,
		r.CycleLimitHours-c.CycleHoursUsed,
	)
}

func (s *simulation) violation(leg Leg, remaining float64, reason string) error {
	return &InvariantViolationError{
		Leg:       leg.Label,
		Remaining: remaining,
		Clock:     s.clock,
		Reason:    reason,
	}
}

func reached(value, limit float64) bool {
	return value >= limit-epsilon
}

// IsInvariantViolation reports whether err carries an *InvariantViolationError.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolationError
	return errors.As(err, &iv)
}
