package ports

import (
	"context"

	"hos-logbook-service/internal/domain"
)

// RouteCache stores resolved locations and segments.
// Get methods report a miss with ok=false and a nil error.
type RouteCache interface {
	GetLocation(ctx context.Context, query string) (coords domain.Coordinates, ok bool, err error)
	PutLocation(ctx context.Context, query string, coords domain.Coordinates) error
	GetSegment(ctx context.Context, start, end domain.Coordinates) (seg domain.SegmentRoute, ok bool, err error)
	PutSegment(ctx context.Context, start, end domain.Coordinates, seg domain.SegmentRoute) error
}
