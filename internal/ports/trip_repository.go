package ports

import (
	"context"

	"hos-logbook-service/internal/domain"

	"github.com/google/uuid"
)

// Port: a boundary for persisting planned trips.
type TripRepository interface {
	// Save stores a trip with its intervals and stops.
	Save(ctx context.Context, trip *domain.Trip) error
	// Get loads a trip; daily logs are left empty. Returns ErrNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	// Delete removes a trip. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the most recent trips first.
	List(ctx context.Context, limit int) ([]domain.TripSummary, error)
}
