package routing

import (
	"context"
	"fmt"

	"hos-logbook-service/internal/domain"
)

// MockGeocoder resolves queries from a fixed table.
type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(places map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for k, v := range places {
		m[normalize(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	c, ok := g.m[normalize(query)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", query, ErrNoResults)
	}
	return c, nil
}

type MockPair struct {
	From, To domain.Coordinates
	Miles    float64
	Hours    float64
	Geometry *domain.Geometry
}

// MockRouter returns fixed segments for known coordinate pairs.
type MockRouter struct {
	m map[string]domain.SegmentRoute
}

func NewMockRouter(pairs []MockPair) *MockRouter {
	m := make(map[string]domain.SegmentRoute, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = domain.SegmentRoute{
			DistanceMiles: p.Miles,
			DurationHours: p.Hours,
			Geometry:      p.Geometry,
		}
	}
	return &MockRouter{m: m}
}

func (r *MockRouter) Route(ctx context.Context, start, end domain.Coordinates) (domain.SegmentRoute, error) {
	s, ok := r.m[start.Key()+"|"+end.Key()]
	if !ok {
		return domain.SegmentRoute{}, fmt.Errorf("missing pair %s -> %s: %w", start.Key(), end.Key(), ErrNoResults)
	}
	return s, nil
}
