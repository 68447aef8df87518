package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/db"
	"hos-logbook-service/internal/platform/obs"
)

// SQLRouteCache is a SQL-backed cache for geocoding and segment lookups.
// It works on SQLite and Postgres; tables are created by repositories.InitSchema.
// Entries older than the TTL are treated as misses.
type SQLRouteCache struct {
	DB      *sql.DB
	dialect db.Dialect
	ttl     time.Duration
	now     func() time.Time
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, dialect: dialect, ttl: ttl, now: time.Now}
}

func (s *SQLRouteCache) fresh(updatedAt int64) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(time.Unix(updatedAt, 0)) < s.ttl
}

// GetLocation returns cached coordinates for a normalized query.
func (s *SQLRouteCache) GetLocation(ctx context.Context, query string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "cache.sql.GetLocation")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("route cache: db is nil")
	}

	key := strings.TrimSpace(query)
	if key == "" {
		return domain.Coordinates{}, false, nil
	}

	var lat, lon float64
	var updatedAt int64
	err = s.DB.QueryRowContext(ctx, s.dialect.Rebind(`
	SELECT lat, lon, updated_at
	FROM geocode_cache
	WHERE query_key = ?;
	`), key).Scan(&lat, &lon, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	if !s.fresh(updatedAt) {
		return domain.Coordinates{}, false, nil
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, true, nil
}

// PutLocation stores query -> coordinates, replacing any previous entry.
func (s *SQLRouteCache) PutLocation(ctx context.Context, query string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key := strings.TrimSpace(query)
	if key == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	_, err := s.DB.ExecContext(ctx, s.dialect.Rebind(`
	INSERT INTO geocode_cache (query_key, lat, lon, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (query_key) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		updated_at = EXCLUDED.updated_at;
	`), key, c.Lat, c.Lon, s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", key, err)
	}

	return nil
}

// GetSegment returns a cached segment between two points.
func (s *SQLRouteCache) GetSegment(ctx context.Context, start, end domain.Coordinates) (_ domain.SegmentRoute, _ bool, err error) {
	defer obs.Time(ctx, "cache.sql.GetSegment")(&err)

	if s.DB == nil {
		return domain.SegmentRoute{}, false, errors.New("route cache: db is nil")
	}

	var miles, hours float64
	var geometry string
	var updatedAt int64
	err = s.DB.QueryRowContext(ctx, s.dialect.Rebind(`
	SELECT distance_miles, duration_hours, geometry, updated_at
	FROM segment_cache
	WHERE route_key = ?;
	`), segmentKey(start, end)).Scan(&miles, &hours, &geometry, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SegmentRoute{}, false, nil
	}
	if err != nil {
		return domain.SegmentRoute{}, false, fmt.Errorf("get segment cache: query segment_cache table: %w", err)
	}

	if !s.fresh(updatedAt) {
		return domain.SegmentRoute{}, false, nil
	}

	g, err := decodeGeometry(geometry)
	if err != nil {
		return domain.SegmentRoute{}, false, fmt.Errorf("get segment cache: %w", err)
	}

	return domain.SegmentRoute{DistanceMiles: miles, DurationHours: hours, Geometry: g}, true, nil
}

// PutSegment stores a routed segment, replacing any previous entry.
func (s *SQLRouteCache) PutSegment(ctx context.Context, start, end domain.Coordinates, seg domain.SegmentRoute) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	geometry, err := encodeGeometry(seg.Geometry)
	if err != nil {
		return fmt.Errorf("insert segment cache: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, s.dialect.Rebind(`
	INSERT INTO segment_cache (route_key, distance_miles, duration_hours, geometry, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_miles = EXCLUDED.distance_miles,
		duration_hours = EXCLUDED.duration_hours,
		geometry = EXCLUDED.geometry,
		updated_at = EXCLUDED.updated_at;
	`), segmentKey(start, end), seg.DistanceMiles, seg.DurationHours, geometry, s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert segment cache route=%q: %w", segmentKey(start, end), err)
	}

	return nil
}
