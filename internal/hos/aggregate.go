package hos

import (
	"fmt"
	"math"
	"slices"
	"time"

	"hos-logbook-service/internal/domain"
)

// Aggregate splits intervals at local midnight and builds one log sheet per
// calendar date, ascending.
//
// Totals are hours rounded half away from zero to 2 decimals. Miles are
// apportioned by each day's share of the trip's driving time. The recap only
// covers this trip, and AvailableTomorrow is not clamped at zero.
func Aggregate(intervals []domain.DutyInterval, totalMiles, cycleLimitHours float64) ([]domain.DailyLogSheet, error) {
	if len(intervals) == 0 {
		return []domain.DailyLogSheet{}, nil
	}

	if math.IsNaN(totalMiles) || math.IsInf(totalMiles, 0) || totalMiles < 0 {
		return nil, fmt.Errorf("aggregate: total miles must be finite and non-negative, got %v: %w", totalMiles, ErrInvalidInput)
	}

	type day struct {
		date    time.Time
		entries []domain.DutyInterval
	}

	days := make(map[string]*day)
	var tripDriving float64

	for i, iv := range intervals {
		if !iv.End.After(iv.Start) {
			return nil, fmt.Errorf("aggregate: interval %d ends at or before its start: %w", i, ErrInvalidInput)
		}

		for _, part := range SplitAtMidnight(iv) {
			y, m, d := part.Start.Date()
			key := fmt.Sprintf("%04d-%02d-%02d", y, m, d)

			g, ok := days[key]
			if !ok {
				g = &day{date: time.Date(y, m, d, 0, 0, 0, 0, part.Start.Location())}
				days[key] = g
			}
			g.entries = append(g.entries, part)

			if part.Status == domain.StatusDriving {
				tripDriving += part.Hours()
			}
		}
	}

	ordered := make([]*day, 0, len(days))
	for _, g := range days {
		ordered = append(ordered, g)
	}
	slices.SortFunc(ordered, func(a, b *day) int { return a.date.Compare(b.date) })

	sheets := make([]domain.DailyLogSheet, 0, len(ordered))
	for i, g := range ordered {
		var off, sleeper, driving, onDuty float64
		for _, e := range g.entries {
			switch e.Status {
			case domain.StatusOffDuty:
				off += e.Hours()
			case domain.StatusSleeperBerth:
				sleeper += e.Hours()
			case domain.StatusDriving:
				driving += e.Hours()
			case domain.StatusOnDutyNotDriving:
				onDuty += e.Hours()
			}
		}

		var miles float64
		if tripDriving > 0 {
			miles = driving / tripDriving * totalMiles
		}

		onDutyToday := driving + onDuty

		sheets = append(sheets, domain.DailyLogSheet{
			Date:              g.date,
			TotalMilesDriving: round2(miles),
			TotalMileageToday: round2(miles),
			TotalOffDuty:      round2(off),
			TotalSleeper:      round2(sleeper),
			TotalDriving:      round2(driving),
			TotalOnDuty:       round2(onDuty),
			Entries:           g.entries,
			Remarks:           fmt.Sprintf("Day %d of trip", i+1),
			Recap: domain.Recap{
				OnDutyToday:       round2(onDutyToday),
				TotalLast8Days:    round2(onDutyToday),
				AvailableTomorrow: round2(cycleLimitHours - onDutyToday),
			},
			FromLocation: g.entries[0].Location,
			ToLocation:   g.entries[len(g.entries)-1].Location,
		})
	}

	return sheets, nil
}

// SplitAtMidnight clips an interval into one piece per calendar date it
// touches, in the interval's own time zone. An interval ending exactly at
// midnight yields no empty piece for the following day.
func SplitAtMidnight(iv domain.DutyInterval) []domain.DutyInterval {
	var parts []domain.DutyInterval

	loc := iv.Start.Location()
	start := iv.Start
	for {
		y, m, d := start.Date()
		midnight := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
		if !iv.End.After(midnight) {
			break
		}

		part := iv
		part.Start = start
		part.End = midnight
		parts = append(parts, part)
		start = midnight
	}

	last := iv
	last.Start = start
	return append(parts, last)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
