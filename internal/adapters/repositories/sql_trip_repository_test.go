package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/db"
	"hos-logbook-service/internal/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(conn))
	return conn
}

func sampleTrip(t *testing.T, created time.Time) *domain.Trip {
	t.Helper()
	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, loc)
	at := func(h float64) time.Time { return start.Add(time.Duration(h * float64(time.Hour))) }
	pickup := domain.Coordinates{Lat: 33.4484, Lon: -112.074}

	fc := domain.NewFeatureCollection()
	fc.AddSegment(domain.SegmentToPickup, &domain.Geometry{Type: "LineString", Coordinates: [][]float64{{-118.24, 34.05}, {-112.07, 33.45}}})

	return &domain.Trip{
		ID:               uuid.New(),
		CurrentLocation:  "Los Angeles, CA",
		PickupLocation:   "Phoenix, AZ",
		DropoffLocation:  "Dallas, TX",
		CurrentCycleUsed: 12.5,
		Summary: domain.RouteSummary{
			TotalDistanceMiles: 372.4,
			TotalTimeHours:     9.25,
			StartTime:          start,
			EndTime:            at(9.25),
			Geometry:           fc,
			CurrentCoords:      domain.Coordinates{Lat: 34.0522, Lon: -118.2437},
			PickupCoords:       pickup,
			DropoffCoords:      domain.Coordinates{Lat: 32.7767, Lon: -96.797},
		},
		Intervals: []domain.DutyInterval{
			{Status: domain.StatusOnDutyNotDriving, Start: at(0), End: at(0.25), Location: "Los Angeles, CA", Notes: "Pre-trip inspection"},
			{Status: domain.StatusDriving, Start: at(0.25), End: at(7), Location: "En route to Pickup"},
			{Status: domain.StatusOnDutyNotDriving, Start: at(7), End: at(8), Location: "Phoenix, AZ", Notes: "Loading"},
			{Status: domain.StatusOffDuty, Start: at(8), End: at(9.25), Location: "Phoenix, AZ"},
		},
		Stops: []domain.Stop{
			{Type: domain.StopPickup, Location: "Phoenix, AZ", Coordinates: &pickup, Arrival: at(7), DurationMinutes: 60, Description: "Loading Cargo"},
			{Type: domain.StopBreak, Location: "Phoenix, AZ", Arrival: at(8), DurationMinutes: 30, Description: "30-Minute Rest Break"},
		},
		CreatedAt: created,
	}
}

func TestSQLTripRepository_SaveGet(t *testing.T) {
	repo := NewSQLTripRepository(newTestDB(t), db.DialectSQLite)
	ctx := context.Background()

	trip := sampleTrip(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, trip))

	got, err := repo.Get(ctx, trip.ID)
	require.NoError(t, err)

	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, trip.PickupLocation, got.PickupLocation)
	assert.Equal(t, trip.CurrentCycleUsed, got.CurrentCycleUsed)
	assert.Equal(t, trip.Summary.PickupCoords, got.Summary.PickupCoords)
	assert.Equal(t, trip.Summary.Geometry, got.Summary.Geometry)
	assert.True(t, trip.Summary.StartTime.Equal(got.Summary.StartTime))
	assert.Equal(t, "America/Phoenix", got.Summary.StartTime.Location().String())
	assert.True(t, trip.CreatedAt.Equal(got.CreatedAt))

	require.Len(t, got.Intervals, len(trip.Intervals))
	for i := range trip.Intervals {
		assert.Equal(t, trip.Intervals[i].Status, got.Intervals[i].Status)
		assert.True(t, trip.Intervals[i].Start.Equal(got.Intervals[i].Start))
		assert.True(t, trip.Intervals[i].End.Equal(got.Intervals[i].End))
		assert.Equal(t, trip.Intervals[i].Notes, got.Intervals[i].Notes)
	}

	require.Len(t, got.Stops, 2)
	assert.Equal(t, domain.StopPickup, got.Stops[0].Type)
	require.NotNil(t, got.Stops[0].Coordinates)
	assert.Equal(t, trip.Summary.PickupCoords, *got.Stops[0].Coordinates)
	assert.Nil(t, got.Stops[1].Coordinates)
	assert.Equal(t, 30, got.Stops[1].DurationMinutes)
	assert.Empty(t, got.DailyLogs)
}

func TestSQLTripRepository_GetNotFound(t *testing.T) {
	repo := NewSQLTripRepository(newTestDB(t), db.DialectSQLite)

	_, err := repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSQLTripRepository_SaveDuplicateRollsBack(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLTripRepository(conn, db.DialectSQLite)
	ctx := context.Background()

	trip := sampleTrip(t, time.Now())
	require.NoError(t, repo.Save(ctx, trip))
	require.Error(t, repo.Save(ctx, trip))

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM duty_intervals`).Scan(&n))
	assert.Equal(t, len(trip.Intervals), n)
}

func TestSQLTripRepository_List(t *testing.T) {
	repo := NewSQLTripRepository(newTestDB(t), db.DialectSQLite)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		trip := sampleTrip(t, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Save(ctx, trip))
		ids = append(ids, trip.ID)
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
	assert.Equal(t, 372.4, got[0].TotalDistanceMiles)

	none, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInitSchema_Idempotent(t *testing.T) {
	conn := newTestDB(t)
	assert.NoError(t, InitSchema(conn))
	assert.Error(t, InitSchema(nil))
}

func TestSQLTripRepository_Delete(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLTripRepository(conn, db.DialectSQLite)
	ctx := context.Background()

	keep := sampleTrip(t, time.Now())
	gone := sampleTrip(t, time.Now())
	require.NoError(t, repo.Save(ctx, keep))
	require.NoError(t, repo.Save(ctx, gone))

	require.NoError(t, repo.Delete(ctx, gone.ID))

	_, err := repo.Get(ctx, gone.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM duty_intervals WHERE trip_id = ?`, gone.ID.String()).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM route_stops WHERE trip_id = ?`, gone.ID.String()).Scan(&n))
	assert.Zero(t, n)

	_, err = repo.Get(ctx, keep.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, gone.ID), ports.ErrNotFound)
}
