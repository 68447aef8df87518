package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/hos"
	"hos-logbook-service/internal/platform/logger"
	"hos-logbook-service/internal/platform/obs"
	"hos-logbook-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTripNotFound = errors.New("trip not found")
	// ErrStoreDisabled is returned by read operations when no repository is configured.
	ErrStoreDisabled = errors.New("trip store is not configured")
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type PlanTripRequest struct {
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
	// StartTime overrides the derived start (today at the configured hour).
	StartTime time.Time
}

type TripPlannerOption func(*TripPlanner)

// WithRepository persists planned trips and enables GetTrip/ListTrips.
func WithRepository(repo ports.TripRepository) TripPlannerOption {
	return func(p *TripPlanner) { p.repo = repo }
}

// WithClock replaces time.Now for start time derivation and CreatedAt.
func WithClock(now func() time.Time) TripPlannerOption {
	return func(p *TripPlanner) { p.now = now }
}

// WithStartOfDay sets the local hour trips start at and its time zone.
func WithStartOfDay(hour int, loc *time.Location) TripPlannerOption {
	return func(p *TripPlanner) {
		p.startHour = hour
		if loc != nil {
			p.loc = loc
		}
	}
}

// TripPlanner assembles a trip: it resolves the route, runs the HOS engine
// and derives the daily log sheets.
type TripPlanner struct {
	resolver  *RouteResolver
	engine    *hos.Engine
	repo      ports.TripRepository
	now       func() time.Time
	startHour int
	loc       *time.Location
}

func NewTripPlanner(resolver *RouteResolver, engine *hos.Engine, opts ...TripPlannerOption) *TripPlanner {
	p := &TripPlanner{
		resolver:  resolver,
		engine:    engine,
		now:       time.Now,
		startHour: 8,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rules returns the rule set trips are planned with.
func (p *TripPlanner) Rules() hos.Rules { return p.engine.Rules() }

func (p *TripPlanner) validate(req PlanTripRequest) (PlanTripRequest, error) {
	req.CurrentLocation = strings.TrimSpace(req.CurrentLocation)
	req.PickupLocation = strings.TrimSpace(req.PickupLocation)
	req.DropoffLocation = strings.TrimSpace(req.DropoffLocation)

	switch {
	case req.CurrentLocation == "":
		return req, fmt.Errorf("current location must be non-empty: %w", hos.ErrInvalidInput)
	case req.PickupLocation == "":
		return req, fmt.Errorf("pickup location must be non-empty: %w", hos.ErrInvalidInput)
	case req.DropoffLocation == "":
		return req, fmt.Errorf("dropoff location must be non-empty: %w", hos.ErrInvalidInput)
	}

	limit := p.engine.Rules().CycleLimitHours
	if !(req.CurrentCycleUsed >= 0 && req.CurrentCycleUsed <= limit) {
		return req, fmt.Errorf("current cycle used must be within [0, %g], got %v: %w", limit, req.CurrentCycleUsed, hos.ErrInvalidInput)
	}

	return req, nil
}

// startTime is today's configured start hour in the planning time zone.
func (p *TripPlanner) startTime() time.Time {
	now := p.now().In(p.loc)
	y, m, d := now.Date()
	return time.Date(y, m, d, p.startHour, 0, 0, 0, p.loc)
}

// PlanTrip plans, and when a repository is configured stores, a trip.
//
// Errors wrapping hos.ErrInvalidInput are caller mistakes; an
// *hos.InvariantViolationError is an engine failure.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "planner.PlanTrip")(&err)

	req, err = p.validate(req)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	// Resolve the three locations concurrently; each lookup is bounded by
	// the resolver timeout and always yields coordinates.
	names := [3]string{req.CurrentLocation, req.PickupLocation, req.DropoffLocation}
	roles := [3]domain.LocationRole{domain.RoleCurrent, domain.RolePickup, domain.RoleDropoff}
	var coords [3]domain.Coordinates

	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coords[i] = p.resolver.ResolveLocation(ctx, names[i], roles[i])
		}(i)
	}
	wg.Wait()

	current, pickup, dropoff := coords[0], coords[1], coords[2]

	var toPickup, toDropoff domain.SegmentRoute
	wg.Add(2)
	go func() {
		defer wg.Done()
		toPickup = p.resolver.ComputeSegment(ctx, current, pickup, FallbackMilesToPickup)
	}()
	go func() {
		defer wg.Done()
		toDropoff = p.resolver.ComputeSegment(ctx, pickup, dropoff, FallbackMilesToDropoff)
	}()
	wg.Wait()

	start := req.StartTime
	if start.IsZero() {
		start = p.startTime()
	}

	result, err := p.engine.Simulate(hos.Input{
		StartTime:        start,
		CurrentCycleUsed: req.CurrentCycleUsed,
		Origin:           hos.Waypoint{Name: req.CurrentLocation, Coordinates: &current},
		Pickup:           hos.Waypoint{Name: req.PickupLocation, Coordinates: &pickup},
		Dropoff:          hos.Waypoint{Name: req.DropoffLocation, Coordinates: &dropoff},
		ToPickup:         hos.Leg{Hours: toPickup.DurationHours},
		ToDropoff:        hos.Leg{Hours: toDropoff.DurationHours},
	})
	if err != nil {
		if hos.IsInvariantViolation(err) {
			logger.Get().Error("hos engine invariant violated", zap.Error(err), zap.String("req_id", obs.RequestID(ctx)))
		}
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	totalMiles := toPickup.DistanceMiles + toDropoff.DistanceMiles

	sheets, err := hos.Aggregate(result.Intervals, totalMiles, p.engine.Rules().CycleLimitHours)
	if err != nil {
		return nil, fmt.Errorf("plan trip: aggregate daily logs: %w", err)
	}

	geometry := domain.NewFeatureCollection()
	geometry.AddSegment(domain.SegmentToPickup, toPickup.Geometry)
	geometry.AddSegment(domain.SegmentToDropoff, toDropoff.Geometry)

	trip := &domain.Trip{
		ID:               uuid.New(),
		CurrentLocation:  req.CurrentLocation,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		CurrentCycleUsed: req.CurrentCycleUsed,
		Summary: domain.RouteSummary{
			TotalDistanceMiles: totalMiles,
			TotalTimeHours:     result.EndTime.Sub(result.StartTime).Hours(),
			StartTime:          result.StartTime,
			EndTime:            result.EndTime,
			Geometry:           geometry,
			CurrentCoords:      current,
			PickupCoords:       pickup,
			DropoffCoords:      dropoff,
		},
		Intervals: result.Intervals,
		Stops:     result.Stops,
		DailyLogs: sheets,
		CreatedAt: p.now().UTC(),
	}

	if p.repo != nil {
		if err := p.repo.Save(ctx, trip); err != nil {
			return nil, fmt.Errorf("plan trip: save: %w", err)
		}
	}

	logger.Get().Info("trip planned",
		zap.String("trip_id", trip.ID.String()),
		zap.Float64("miles", totalMiles),
		zap.Float64("hours", trip.Summary.TotalTimeHours),
		zap.Int("stops", len(trip.Stops)),
		zap.Int("days", len(sheets)),
		zap.Bool("fallback_route", toPickup.Fallback || toDropoff.Fallback),
	)

	return trip, nil
}

// GetTrip loads a stored trip and recomputes its daily logs.
func (p *TripPlanner) GetTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	if p.repo == nil {
		return nil, ErrStoreDisabled
	}

	trip, err := p.repo.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("get trip %s: %w", id, ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	trip.DailyLogs, err = hos.Aggregate(trip.Intervals, trip.Summary.TotalDistanceMiles, p.engine.Rules().CycleLimitHours)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: aggregate daily logs: %w", id, err)
	}

	return trip, nil
}

// DeleteTrip removes a stored trip.
func (p *TripPlanner) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if p.repo == nil {
		return ErrStoreDisabled
	}

	err := p.repo.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("delete trip %s: %w", id, ErrTripNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete trip %s: %w", id, err)
	}
	return nil
}

// ListTrips returns recent trip summaries. limit is clamped to
// [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (p *TripPlanner) ListTrips(ctx context.Context, limit int) ([]domain.TripSummary, error) {
	if p.repo == nil {
		return nil, ErrStoreDisabled
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	trips, err := p.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}
