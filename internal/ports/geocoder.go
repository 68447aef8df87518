package ports

import (
	"context"

	"hos-logbook-service/internal/domain"
)

// Geocoder resolves a free-form place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}
