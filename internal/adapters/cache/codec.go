package cache

import (
	"encoding/json"
	"fmt"

	"hos-logbook-service/internal/domain"
)

func segmentKey(start, end domain.Coordinates) string {
	return start.Key() + "|" + end.Key()
}

type cachedSegment struct {
	DistanceMiles float64          `json:"distance_miles"`
	DurationHours float64          `json:"duration_hours"`
	Geometry      *domain.Geometry `json:"geometry,omitempty"`
}

func encodeGeometry(g *domain.Geometry) (string, error) {
	if g == nil {
		return "", nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode geometry: %w", err)
	}
	return string(b), nil
}

func decodeGeometry(s string) (*domain.Geometry, error) {
	if s == "" {
		return nil, nil
	}
	var g domain.Geometry
	if err := json.Unmarshal([]byte(s), &g); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}
	return &g, nil
}
