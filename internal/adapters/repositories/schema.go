package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the trip store and route cache tables.
// The DDL sticks to types SQLite and Postgres both accept.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used DOUBLE PRECISION NOT NULL,
		total_distance_miles DOUBLE PRECISION NOT NULL,
		total_time_hours DOUBLE PRECISION NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		timezone TEXT NOT NULL,
		geometry TEXT NOT NULL,
		current_lat DOUBLE PRECISION NOT NULL,
		current_lon DOUBLE PRECISION NOT NULL,
		pickup_lat DOUBLE PRECISION NOT NULL,
		pickup_lon DOUBLE PRECISION NOT NULL,
		dropoff_lat DOUBLE PRECISION NOT NULL,
		dropoff_lon DOUBLE PRECISION NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createIntervalsQuery := `
	CREATE TABLE IF NOT EXISTS duty_intervals (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		status TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		location TEXT NOT NULL,
		notes TEXT NOT NULL,
		PRIMARY KEY (trip_id, seq)
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		stop_type TEXT NOT NULL,
		location TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		arrival TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		description TEXT NOT NULL,
		PRIMARY KEY (trip_id, seq)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query_key TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

	createSegmentCacheQuery := `
	CREATE TABLE IF NOT EXISTS segment_cache (
		route_key TEXT PRIMARY KEY,
		distance_miles DOUBLE PRECISION NOT NULL,
		duration_hours DOUBLE PRECISION NOT NULL,
		geometry TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
	ON trips(created_at);
	`

	statements := []string{
		createTripsQuery,
		createIntervalsQuery,
		createStopsQuery,
		createGeocodeCacheQuery,
		createSegmentCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
