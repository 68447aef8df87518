package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/ports"

	"github.com/google/uuid"
)

type memoryCache struct {
	mu        sync.Mutex
	locations map[string]domain.Coordinates
	segments  map[string]domain.SegmentRoute
	failReads bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		locations: map[string]domain.Coordinates{},
		segments:  map[string]domain.SegmentRoute{},
	}
}

func (m *memoryCache) GetLocation(ctx context.Context, q string) (domain.Coordinates, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return domain.Coordinates{}, false, errors.New("cache down")
	}
	c, ok := m.locations[q]
	return c, ok, nil
}

func (m *memoryCache) PutLocation(ctx context.Context, q string, c domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[q] = c
	return nil
}

func (m *memoryCache) GetSegment(ctx context.Context, a, b domain.Coordinates) (domain.SegmentRoute, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return domain.SegmentRoute{}, false, errors.New("cache down")
	}
	s, ok := m.segments[a.Key()+"|"+b.Key()]
	return s, ok, nil
}

func (m *memoryCache) PutSegment(ctx context.Context, a, b domain.Coordinates, s domain.SegmentRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[a.Key()+"|"+b.Key()] = s
	return nil
}

// countingGeocoder wraps a geocoder and counts calls.
type countingGeocoder struct {
	mu    sync.Mutex
	inner ports.Geocoder
	calls int
}

func (c *countingGeocoder) Geocode(ctx context.Context, q string) (domain.Coordinates, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Geocode(ctx, q)
}

// blockingGeocoder waits for the context to end.
type blockingGeocoder struct{}

func (blockingGeocoder) Geocode(ctx context.Context, q string) (domain.Coordinates, error) {
	<-ctx.Done()
	return domain.Coordinates{}, ctx.Err()
}

type memoryTripRepository struct {
	mu    sync.Mutex
	trips map[uuid.UUID]domain.Trip
}

func newMemoryTripRepository() *memoryTripRepository {
	return &memoryTripRepository{trips: map[uuid.UUID]domain.Trip{}}
}

func (r *memoryTripRepository) Save(ctx context.Context, t *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *t
	stored.DailyLogs = nil
	r.trips[t.ID] = stored
	return nil
}

func (r *memoryTripRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &t, nil
}

func (r *memoryTripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.trips, id)
	return nil
}

func (r *memoryTripRepository) List(ctx context.Context, limit int) ([]domain.TripSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TripSummary, 0, len(r.trips))
	for _, t := range r.trips {
		out = append(out, domain.TripSummary{ID: t.ID, CreatedAt: t.CreatedAt, PickupLocation: t.PickupLocation})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
