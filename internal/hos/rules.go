package hos

import (
	"fmt"
	"math"
)

// Rules holds the hours-of-service limits the engine enforces.
// All durations are in hours.
type Rules struct {
	MaxDrivingHours        float64 // driving allowed before a daily rest
	DutyWindowHours        float64 // on-duty allowed before a daily rest
	BreakAfterDrivingHours float64 // driving allowed before a break
	BreakHours             float64
	DailyRestHours         float64
	RestartHours           float64 // continuous rest that resets the cycle
	CycleLimitHours        float64
	FuelIntervalMiles      float64
	FuelStopHours          float64
	AverageSpeedMPH        float64 // converts driving time to fuel distance
}

// DefaultRules returns the FMCSA property-carrying limits: 11h driving,
// 14h duty window, break after 8h, 70h cycle, fuel every 1000 miles.
func DefaultRules() Rules {
	return Rules{
		MaxDrivingHours:        11,
		DutyWindowHours:        14,
		BreakAfterDrivingHours: 8,
		BreakHours:             0.5,
		DailyRestHours:         10,
		RestartHours:           34,
		CycleLimitHours:        70,
		FuelIntervalMiles:      1000,
		FuelStopHours:          0.25,
		AverageSpeedMPH:        55,
	}
}

// Validate rejects rule sets the engine cannot terminate on.
func (r Rules) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"max driving hours", r.MaxDrivingHours},
		{"duty window hours", r.DutyWindowHours},
		{"break after driving hours", r.BreakAfterDrivingHours},
		{"break hours", r.BreakHours},
		{"daily rest hours", r.DailyRestHours},
		{"restart hours", r.RestartHours},
		{"cycle limit hours", r.CycleLimitHours},
		{"fuel interval miles", r.FuelIntervalMiles},
		{"fuel stop hours", r.FuelStopHours},
		{"average speed mph", r.AverageSpeedMPH},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("validate rules: %s must be a positive number, got %v: %w", f.name, f.value, ErrInvalidInput)
		}
	}

	if r.BreakHours > r.DailyRestHours {
		return fmt.Errorf("validate rules: break (%vh) longer than daily rest (%vh): %w", r.BreakHours, r.DailyRestHours, ErrInvalidInput)
	}
	if r.DailyRestHours > r.RestartHours {
		return fmt.Errorf("validate rules: daily rest (%vh) longer than restart (%vh): %w", r.DailyRestHours, r.RestartHours, ErrInvalidInput)
	}

	return nil
}
