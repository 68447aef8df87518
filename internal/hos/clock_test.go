package hos

import (
	"testing"
	"time"

	"hos-logbook-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDutyClockApply(t *testing.T) {
	r := DefaultRules()

	t.Run("driving accumulates every counter", func(t *testing.T) {
		c := DutyClock{CurrentTime: testStart, CycleHoursUsed: 5}
		c.apply(r, domain.StatusDriving, 2)

		assert.Equal(t, 2.0, c.DrivingSinceRest)
		assert.Equal(t, 2.0, c.DrivingSinceBreak)
		assert.Equal(t, 2.0, c.DutySinceRest)
		assert.Equal(t, 7.0, c.CycleHoursUsed)
		assert.Equal(t, 110.0, c.MilesSinceFuel)
		assert.Equal(t, testStart.Add(2*time.Hour), c.CurrentTime)
	})

	t.Run("short on-duty keeps the break counter", func(t *testing.T) {
		c := DutyClock{DrivingSinceBreak: 6}
		c.apply(r, domain.StatusOnDutyNotDriving, 0.25)

		assert.Equal(t, 6.0, c.DrivingSinceBreak)
		assert.Equal(t, 0.25, c.DutySinceRest)
		assert.Equal(t, 0.25, c.CycleHoursUsed)
	})

	t.Run("half hour on-duty counts as a break", func(t *testing.T) {
		c := DutyClock{DrivingSinceBreak: 6}
		c.apply(r, domain.StatusOnDutyNotDriving, 0.5)
		assert.Zero(t, c.DrivingSinceBreak)
	})

	t.Run("daily rest clears rest counters but not the cycle", func(t *testing.T) {
		c := DutyClock{DrivingSinceRest: 11, DutySinceRest: 13, DrivingSinceBreak: 3, CycleHoursUsed: 40, MilesSinceFuel: 500}
		c.apply(r, domain.StatusSleeperBerth, 10)

		assert.Zero(t, c.DrivingSinceRest)
		assert.Zero(t, c.DutySinceRest)
		assert.Zero(t, c.DrivingSinceBreak)
		assert.Equal(t, 40.0, c.CycleHoursUsed)
		assert.Equal(t, 500.0, c.MilesSinceFuel)
	})

	t.Run("restart clears the cycle", func(t *testing.T) {
		c := DutyClock{DrivingSinceRest: 4, CycleHoursUsed: 70}
		c.apply(r, domain.StatusOffDuty, 34)

		assert.Zero(t, c.CycleHoursUsed)
		assert.Zero(t, c.DrivingSinceRest)
	})

	t.Run("short off duty changes nothing but time", func(t *testing.T) {
		c := DutyClock{CurrentTime: testStart, DrivingSinceRest: 4, DrivingSinceBreak: 4, DutySinceRest: 4}
		c.apply(r, domain.StatusOffDuty, 0.25)

		assert.Equal(t, DutyClock{
			CurrentTime:       testStart.Add(15 * time.Minute),
			DrivingSinceRest:  4,
			DrivingSinceBreak: 4,
			DutySinceRest:     4,
		}, c)
	})
}
