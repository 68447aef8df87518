package repositories

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/hos"
	"hos-logbook-service/internal/platform/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneCodec(t *testing.T) {
	phoenix, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)

	var decoded time.Time
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-02T20:00:00-05:00"`), &decoded))

	tests := []struct {
		name    string
		t       time.Time
		stored  string
		wantOff int
	}{
		{"IANA", time.Date(2026, 3, 2, 8, 0, 0, 0, phoenix), "America/Phoenix", -7 * 3600},
		{"UTC", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), "UTC", 0},
		{"ParsedOffset", decoded, "fixed:-18000:", -5 * 3600},
		{"UnknownAbbreviation", time.Date(2026, 3, 2, 8, 0, 0, 0, time.FixedZone("PDT", -7*3600)), "fixed:-25200:PDT", -7 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := encodeZone(tt.t)
			assert.True(t, strings.HasPrefix(stored, tt.stored), "stored %q", stored)

			_, off := tt.t.In(decodeZone(stored)).Zone()
			assert.Equal(t, tt.wantOff, off)
		})
	}

	assert.Equal(t, time.UTC, decodeZone(""))
	assert.Equal(t, time.UTC, decodeZone("fixed:abc:"))
	assert.Equal(t, time.UTC, decodeZone("Mars/Olympus_Mons"))
}

func simulatedTrip(t *testing.T, start time.Time) *domain.Trip {
	t.Helper()
	engine, err := hos.NewEngine(hos.DefaultRules())
	require.NoError(t, err)

	res, err := engine.Simulate(hos.Input{
		StartTime: start,
		Origin:    hos.Waypoint{Name: "Yard"},
		Pickup:    hos.Waypoint{Name: "Shipper"},
		Dropoff:   hos.Waypoint{Name: "Receiver"},
		ToPickup:  hos.Leg{Hours: 3},
		ToDropoff: hos.Leg{Hours: 3},
	})
	require.NoError(t, err)

	return &domain.Trip{
		ID:              uuid.New(),
		CurrentLocation: "Yard",
		PickupLocation:  "Shipper",
		DropoffLocation: "Receiver",
		Summary: domain.RouteSummary{
			TotalDistanceMiles: 330,
			TotalTimeHours:     res.EndTime.Sub(res.StartTime).Hours(),
			StartTime:          res.StartTime,
			EndTime:            res.EndTime,
			Geometry:           domain.NewFeatureCollection(),
		},
		Intervals: res.Intervals,
		Stops:     res.Stops,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLTripRepository_KeepsOffsetStartZone(t *testing.T) {
	var fromJSON time.Time
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-02T20:00:00-05:00"`), &fromJSON))

	starts := map[string]time.Time{
		"DecodedOffset": fromJSON,
		"NamedFixed":    time.Date(2026, 3, 2, 18, 0, 0, 0, time.FixedZone("PDT", -7*3600)),
	}

	for name, start := range starts {
		t.Run(name, func(t *testing.T) {
			repo := NewSQLTripRepository(newTestDB(t), db.DialectSQLite)
			ctx := context.Background()

			trip := simulatedTrip(t, start)
			planned, err := hos.Aggregate(trip.Intervals, trip.Summary.TotalDistanceMiles, 70)
			require.NoError(t, err)
			require.Len(t, planned, 2, "the trip crosses local midnight")

			require.NoError(t, repo.Save(ctx, trip))
			got, err := repo.Get(ctx, trip.ID)
			require.NoError(t, err)

			_, wantOff := start.Zone()
			_, gotOff := got.Summary.StartTime.Zone()
			assert.Equal(t, wantOff, gotOff)
			assert.Equal(t, start.Hour(), got.Summary.StartTime.Hour())

			reread, err := hos.Aggregate(got.Intervals, got.Summary.TotalDistanceMiles, 70)
			require.NoError(t, err)
			require.Len(t, reread, len(planned))
			for i := range planned {
				assert.True(t, planned[i].Date.Equal(reread[i].Date), "sheet %d date", i)
				assert.Equal(t, planned[i].Date.Format("2006-01-02"), reread[i].Date.Format("2006-01-02"))
				assert.Equal(t, planned[i].TotalDriving, reread[i].TotalDriving)
			}
		})
	}
}
