package hos

import (
	"math"
	"time"

	"hos-logbook-service/internal/domain"
)

// DutyClock is the mutable state of one simulation run: simulated time plus
// the rolling counters that gate driving. It is owned by a single run and
// only changes through apply and refuel.
type DutyClock struct {
	CurrentTime       time.Time
	DrivingSinceRest  float64
	DutySinceRest     float64
	DrivingSinceBreak float64
	CycleHoursUsed    float64
	MilesSinceFuel    float64
}

// apply accounts for an interval of the given status and length.
// Order matters: accumulation, rest resets, break reset, then time.
func (c *DutyClock) apply(r Rules, status domain.DutyStatus, hours float64) {
	switch status {
	case domain.StatusDriving:
		c.DrivingSinceRest += hours
		c.DrivingSinceBreak += hours
		c.DutySinceRest += hours
		c.CycleHoursUsed += hours
		c.MilesSinceFuel += hours * r.AverageSpeedMPH
	case domain.StatusOnDutyNotDriving:
		c.DutySinceRest += hours
		c.CycleHoursUsed += hours
	}

	if status.Resting() && hours >= r.DailyRestHours {
		c.DrivingSinceRest = 0
		c.DutySinceRest = 0
		c.DrivingSinceBreak = 0
		if hours >= r.RestartHours {
			c.CycleHoursUsed = 0
		}
	}

	// Any non-driving stretch of break length satisfies the break requirement.
	if status != domain.StatusDriving && hours >= r.BreakHours {
		c.DrivingSinceBreak = 0
	}

	c.CurrentTime = c.CurrentTime.Add(hoursToDuration(hours))
}

func (c *DutyClock) refuel() {
	c.MilesSinceFuel = 0
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
