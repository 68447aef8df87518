package services

import (
	"context"
	"strings"
	"time"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/logger"
	"hos-logbook-service/internal/ports"

	"go.uber.org/zap"
)

const (
	FallbackMilesToPickup  = 200.0
	FallbackMilesToDropoff = 1000.0

	// Speed used to estimate fallback segment durations.
	fallbackSpeedMPH = 55.0
)

var defaultCoordinates = map[domain.LocationRole]domain.Coordinates{
	domain.RoleCurrent: {Lat: 34.0522, Lon: -118.2437}, // Los Angeles
	domain.RolePickup:  {Lat: 33.4484, Lon: -112.0740}, // Phoenix
	domain.RoleDropoff: {Lat: 32.7767, Lon: -96.7970},  // Dallas
}

// DefaultCoordinates returns the fallback position for a location role.
func DefaultCoordinates(role domain.LocationRole) domain.Coordinates {
	if c, ok := defaultCoordinates[role]; ok {
		return c
	}
	return defaultCoordinates[domain.RoleCurrent]
}

// RouteResolver answers location and segment lookups with guaranteed
// results: cache first, then the provider, then a fixed fallback.
// Any of geocoder, router and cache may be nil.
type RouteResolver struct {
	geocoder ports.Geocoder
	router   ports.SegmentRouter
	cache    ports.RouteCache
	timeout  time.Duration
}

func NewRouteResolver(
	geocoder ports.Geocoder,
	router ports.SegmentRouter,
	cache ports.RouteCache,
	timeout time.Duration,
) *RouteResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RouteResolver{
		geocoder: geocoder,
		router:   router,
		cache:    cache,
		timeout:  timeout,
	}
}

// ResolveLocation never fails: provider errors are logged and the role's
// default coordinates are returned instead.
func (r *RouteResolver) ResolveLocation(ctx context.Context, name string, role domain.LocationRole) domain.Coordinates {
	log := logger.Get().With(zap.String("location", name), zap.String("role", string(role)))

	query := strings.Join(strings.Fields(name), " ")
	if query == "" {
		log.Warn("empty location name, using default coordinates")
		return DefaultCoordinates(role)
	}

	if r.cache != nil {
		c, ok, err := r.cache.GetLocation(ctx, query)
		if err != nil {
			log.Warn("geocode cache read failed", zap.Error(err))
		} else if ok {
			return c
		}
	}

	if r.geocoder == nil {
		return DefaultCoordinates(role)
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c, err := r.geocoder.Geocode(cctx, query)
	if err != nil {
		log.Warn("geocoding failed, using default coordinates", zap.Error(err))
		return DefaultCoordinates(role)
	}

	if r.cache != nil {
		if err := r.cache.PutLocation(ctx, query, c); err != nil {
			log.Warn("geocode cache write failed", zap.Error(err))
		}
	}

	return c
}

// ComputeSegment never fails: when routing is unavailable it returns
// fallbackMiles driven at 55 mph with no geometry and Fallback set.
// Fallback results are not cached.
func (r *RouteResolver) ComputeSegment(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	fallbackMiles float64,
) domain.SegmentRoute {
	log := logger.Get().With(zap.String("from", start.Key()), zap.String("to", end.Key()))

	if r.cache != nil {
		seg, ok, err := r.cache.GetSegment(ctx, start, end)
		if err != nil {
			log.Warn("segment cache read failed", zap.Error(err))
		} else if ok {
			return seg
		}
	}

	fallback := domain.SegmentRoute{
		DistanceMiles: fallbackMiles,
		DurationHours: fallbackMiles / fallbackSpeedMPH,
		Fallback:      true,
	}

	if r.router == nil {
		return fallback
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	seg, err := r.router.Route(cctx, start, end)
	if err != nil {
		log.Warn("routing failed, using fallback segment", zap.Error(err), zap.Float64("fallback_miles", fallbackMiles))
		return fallback
	}
	if seg.DistanceMiles < 0 || seg.DurationHours < 0 {
		log.Warn("router returned negative values, using fallback segment",
			zap.Float64("miles", seg.DistanceMiles), zap.Float64("hours", seg.DurationHours))
		return fallback
	}

	if r.cache != nil {
		if err := r.cache.PutSegment(ctx, start, end, seg); err != nil {
			log.Warn("segment cache write failed", zap.Error(err))
		}
	}

	return seg
}
