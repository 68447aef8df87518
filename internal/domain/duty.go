package domain

import "time"

// DutyStatus is the driver's activity category. Exactly one holds during any interval.
type DutyStatus string

const (
	StatusOffDuty          DutyStatus = "OFF_DUTY"
	StatusSleeperBerth     DutyStatus = "SLEEPER_BERTH"
	StatusDriving          DutyStatus = "DRIVING"
	StatusOnDutyNotDriving DutyStatus = "ON_DUTY_NOT_DRIVING"
)

// Valid reports whether s is one of the four duty statuses.
func (s DutyStatus) Valid() bool {
	switch s {
	case StatusOffDuty, StatusSleeperBerth, StatusDriving, StatusOnDutyNotDriving:
		return true
	}
	return false
}

// Resting reports whether the status counts as rest (off duty or sleeper berth).
func (s DutyStatus) Resting() bool {
	return s == StatusOffDuty || s == StatusSleeperBerth
}

// Label returns the human readable form used on log sheets.
func (s DutyStatus) Label() string {
	switch s {
	case StatusOffDuty:
		return "Off Duty"
	case StatusSleeperBerth:
		return "Sleeper Berth"
	case StatusDriving:
		return "Driving"
	case StatusOnDutyNotDriving:
		return "On Duty (Not Driving)"
	}
	return string(s)
}

// DutyInterval is one contiguous span of a single duty status.
// Intervals emitted by a simulation run are ordered and contiguous:
// each Start equals the previous End.
type DutyInterval struct {
	Status   DutyStatus
	Start    time.Time
	End      time.Time
	Location string
	Notes    string
}

// Hours returns the interval length in hours.
func (d DutyInterval) Hours() float64 {
	return d.End.Sub(d.Start).Hours()
}
