package domain

import "time"

// Recap summarises cycle usage for one log day.
// TotalLast8Days only covers the current trip; there is no lookback across trips.
type Recap struct {
	OnDutyToday       float64
	TotalLast8Days    float64
	AvailableTomorrow float64
}

// DailyLogSheet is the per-calendar-day view of a trip's duty intervals.
// It is derived data: always recomputed from the full interval sequence.
type DailyLogSheet struct {
	Date              time.Time
	TotalMilesDriving float64
	TotalMileageToday float64
	TotalOffDuty      float64
	TotalSleeper      float64
	TotalDriving      float64
	TotalOnDuty       float64
	Entries           []DutyInterval
	Remarks           string
	Recap             Recap
	FromLocation      string
	ToLocation        string
}
