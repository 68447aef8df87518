package ports

import (
	"context"

	"hos-logbook-service/internal/domain"
)

// SegmentRouter computes the driving route between two points.
// Implementations return an error rather than a partial route; callers
// decide on fallbacks.
type SegmentRouter interface {
	Route(ctx context.Context, start, end domain.Coordinates) (domain.SegmentRoute, error)
}
