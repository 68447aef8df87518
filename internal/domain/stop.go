package domain

import (
	"fmt"
	"time"
)

type StopType string

const (
	StopPickup  StopType = "PICKUP"
	StopDropoff StopType = "DROPOFF"
	StopFuel    StopType = "FUEL"
	StopBreak   StopType = "BREAK"
	StopRest    StopType = "REST"
)

// Label returns the display name of the stop type.
func (t StopType) Label() string {
	switch t {
	case StopPickup:
		return "Pickup"
	case StopDropoff:
		return "Dropoff"
	case StopFuel:
		return "Fueling"
	case StopBreak:
		return "30-Minute Break"
	case StopRest:
		return "10-Hour Rest"
	}
	return string(t)
}

// Stop annotates the duty timeline. Arrival and DurationMinutes always match
// a DutyInterval emitted at the same moment.
// Coordinates are only known for pickup and dropoff stops.
type Stop struct {
	Type            StopType
	Location        string
	Coordinates     *Coordinates
	Arrival         time.Time
	DurationMinutes int
	Description     string
}

// Label names the stop for display. Rest and break labels carry the actual
// duration, so a cycle restart reads "34-Hour Rest".
func (s Stop) Label() string {
	switch {
	case s.Type == StopRest && s.DurationMinutes > 0 && s.DurationMinutes%60 == 0:
		return fmt.Sprintf("%d-Hour Rest", s.DurationMinutes/60)
	case s.Type == StopBreak && s.DurationMinutes > 0:
		return fmt.Sprintf("%d-Minute Break", s.DurationMinutes)
	}
	return s.Type.Label()
}
