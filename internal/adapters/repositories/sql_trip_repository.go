package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/db"
	"hos-logbook-service/internal/platform/obs"
	"hos-logbook-service/internal/ports"

	"github.com/google/uuid"
)

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQL-backed implementation of the TripRepository port.
// Daily logs are not stored; they are derived from the intervals on read.
type SQLTripRepository struct {
	DB      *sql.DB
	dialect db.Dialect
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, dialect: dialect}
}

// Save writes the trip, its intervals and its stops in one transaction.
func (s *SQLTripRepository) Save(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "repo.trips.Save")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("save trip: trip is nil")
	}

	geometry, err := json.Marshal(trip.Summary.Geometry)
	if err != nil {
		return fmt.Errorf("save trip: encode geometry: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sum := trip.Summary
	_, err = tx.ExecContext(ctx, s.dialect.Rebind(`
	INSERT INTO trips (
		id, current_location, pickup_location, dropoff_location, current_cycle_used,
		total_distance_miles, total_time_hours, start_time, end_time, timezone, geometry,
		current_lat, current_lon, pickup_lat, pickup_lon, dropoff_lat, dropoff_lon,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		trip.ID.String(), trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation, trip.CurrentCycleUsed,
		sum.TotalDistanceMiles, sum.TotalTimeHours, formatTime(sum.StartTime), formatTime(sum.EndTime),
		encodeZone(sum.StartTime), string(geometry),
		sum.CurrentCoords.Lat, sum.CurrentCoords.Lon, sum.PickupCoords.Lat, sum.PickupCoords.Lon,
		sum.DropoffCoords.Lat, sum.DropoffCoords.Lon,
		formatTime(trip.CreatedAt.UTC()),
	)
	if err != nil {
		return fmt.Errorf("save trip id=%s: insert trip: %w", trip.ID, err)
	}

	ivStmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
	INSERT INTO duty_intervals (trip_id, seq, status, start_time, end_time, location, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save trip: prepare interval insert: %w", err)
	}
	defer ivStmt.Close()

	for i, iv := range trip.Intervals {
		if _, err := ivStmt.ExecContext(ctx,
			trip.ID.String(), i, string(iv.Status), formatTime(iv.Start), formatTime(iv.End), iv.Location, iv.Notes,
		); err != nil {
			return fmt.Errorf("save trip id=%s: insert interval #%d: %w", trip.ID, i, err)
		}
	}

	stopStmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
	INSERT INTO route_stops (trip_id, seq, stop_type, location, lat, lon, arrival, duration_minutes, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save trip: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for i, st := range trip.Stops {
		var lat, lon sql.NullFloat64
		if st.Coordinates != nil {
			lat = sql.NullFloat64{Float64: st.Coordinates.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: st.Coordinates.Lon, Valid: true}
		}
		if _, err := stopStmt.ExecContext(ctx,
			trip.ID.String(), i, string(st.Type), st.Location, lat, lon,
			formatTime(st.Arrival), st.DurationMinutes, st.Description,
		); err != nil {
			return fmt.Errorf("save trip id=%s: insert stop #%d: %w", trip.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save trip: commit tx: %w", err)
	}

	return nil
}

// Get loads a trip with its intervals and stops. Times are returned in the
// zone the trip was planned in.
func (s *SQLTripRepository) Get(ctx context.Context, id uuid.UUID) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "repo.trips.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	var (
		trip                 domain.Trip
		start, end, tz, geom string
		created              string
	)
	sum := &trip.Summary

	err = s.DB.QueryRowContext(ctx, s.dialect.Rebind(`
	SELECT
		current_location, pickup_location, dropoff_location, current_cycle_used,
		total_distance_miles, total_time_hours, start_time, end_time, timezone, geometry,
		current_lat, current_lon, pickup_lat, pickup_lon, dropoff_lat, dropoff_lon,
		created_at
	FROM trips
	WHERE id = ?;
	`), id.String()).Scan(
		&trip.CurrentLocation, &trip.PickupLocation, &trip.DropoffLocation, &trip.CurrentCycleUsed,
		&sum.TotalDistanceMiles, &sum.TotalTimeHours, &start, &end, &tz, &geom,
		&sum.CurrentCoords.Lat, &sum.CurrentCoords.Lon, &sum.PickupCoords.Lat, &sum.PickupCoords.Lon,
		&sum.DropoffCoords.Lat, &sum.DropoffCoords.Lon,
		&created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip id=%s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: query trips table: %w", id, err)
	}

	trip.ID = id

	loc := decodeZone(tz)

	if sum.StartTime, err = parseTime(start, loc); err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}
	if sum.EndTime, err = parseTime(end, loc); err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}
	if trip.CreatedAt, err = parseTime(created, time.UTC); err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(geom), &sum.Geometry); err != nil {
		return nil, fmt.Errorf("get trip id=%s: decode geometry: %w", id, err)
	}

	if trip.Intervals, err = s.loadIntervals(ctx, id, loc); err != nil {
		return nil, err
	}
	if trip.Stops, err = s.loadStops(ctx, id, loc); err != nil {
		return nil, err
	}

	return &trip, nil
}

func (s *SQLTripRepository) loadIntervals(ctx context.Context, id uuid.UUID, loc *time.Location) ([]domain.DutyInterval, error) {
	rows, err := s.DB.QueryContext(ctx, s.dialect.Rebind(`
	SELECT status, start_time, end_time, location, notes
	FROM duty_intervals
	WHERE trip_id = ?
	ORDER BY seq;
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: query duty_intervals table: %w", id, err)
	}
	defer rows.Close()

	intervals := make([]domain.DutyInterval, 0, 32)
	for rows.Next() {
		var iv domain.DutyInterval
		var status, start, end string
		if err := rows.Scan(&status, &start, &end, &iv.Location, &iv.Notes); err != nil {
			return nil, fmt.Errorf("get trip id=%s: scan interval: %w", id, err)
		}
		iv.Status = domain.DutyStatus(status)
		if iv.Start, err = parseTime(start, loc); err != nil {
			return nil, fmt.Errorf("get trip id=%s: %w", id, err)
		}
		if iv.End, err = parseTime(end, loc); err != nil {
			return nil, fmt.Errorf("get trip id=%s: %w", id, err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get trip id=%s: interval iteration: %w", id, err)
	}

	return intervals, nil
}

func (s *SQLTripRepository) loadStops(ctx context.Context, id uuid.UUID, loc *time.Location) ([]domain.Stop, error) {
	rows, err := s.DB.QueryContext(ctx, s.dialect.Rebind(`
	SELECT stop_type, location, lat, lon, arrival, duration_minutes, description
	FROM route_stops
	WHERE trip_id = ?
	ORDER BY seq;
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: query route_stops table: %w", id, err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 8)
	for rows.Next() {
		var st domain.Stop
		var stopType, arrival string
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&stopType, &st.Location, &lat, &lon, &arrival, &st.DurationMinutes, &st.Description); err != nil {
			return nil, fmt.Errorf("get trip id=%s: scan stop: %w", id, err)
		}
		st.Type = domain.StopType(stopType)
		if lat.Valid && lon.Valid {
			st.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		if st.Arrival, err = parseTime(arrival, loc); err != nil {
			return nil, fmt.Errorf("get trip id=%s: %w", id, err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get trip id=%s: stop iteration: %w", id, err)
	}

	return stops, nil
}

// Delete removes a trip with its intervals and stops.
// Returns ErrNotFound when no trip has the id.
func (s *SQLTripRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "repo.trips.Delete")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first; sqlite only cascades when foreign keys are enabled on the connection.
	for _, table := range []string{"duty_intervals", "route_stops"} {
		if _, err := tx.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM `+table+` WHERE trip_id = ?;`), id.String()); err != nil {
			return fmt.Errorf("delete trip id=%s: delete from %s: %w", id, table, err)
		}
	}

	res, err := tx.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM trips WHERE id = ?;`), id.String())
	if err != nil {
		return fmt.Errorf("delete trip id=%s: delete from trips: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip id=%s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete trip id=%s: %w", id, ports.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete trip: commit tx: %w", err)
	}

	return nil
}

// List returns up to limit trip summaries, most recent first.
func (s *SQLTripRepository) List(ctx context.Context, limit int) (_ []domain.TripSummary, err error) {
	defer obs.Time(ctx, "repo.trips.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}
	if limit <= 0 {
		return []domain.TripSummary{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, s.dialect.Rebind(`
	SELECT id, current_location, pickup_location, dropoff_location, current_cycle_used,
		total_distance_miles, created_at
	FROM trips
	ORDER BY created_at DESC, id
	LIMIT ?;
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TripSummary, 0, limit)
	for rows.Next() {
		var ts domain.TripSummary
		var id, created string
		if err := rows.Scan(&id, &ts.CurrentLocation, &ts.PickupLocation, &ts.DropoffLocation,
			&ts.CurrentCycleUsed, &ts.TotalDistanceMiles, &created); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		if ts.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("list trips: parse id %q: %w", id, err)
		}
		if ts.CreatedAt, err = parseTime(created, time.UTC); err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return out, nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.In(loc), nil
}
