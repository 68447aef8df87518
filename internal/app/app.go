package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hos-logbook-service/internal/adapters/cache"
	"hos-logbook-service/internal/adapters/repositories"
	"hos-logbook-service/internal/adapters/routing"
	"hos-logbook-service/internal/config"
	"hos-logbook-service/internal/hos"
	"hos-logbook-service/internal/platform/db"
	"hos-logbook-service/internal/platform/logger"
	"hos-logbook-service/internal/ports"
	"hos-logbook-service/internal/services"

	"go.uber.org/zap"
)

type Options struct {
	// Offline skips geocoding and routing; every lookup uses its fallback.
	Offline bool
	// Ephemeral plans trips without storing them.
	Ephemeral bool
}

// App holds the wired service graph shared by the server and the CLI.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Planner *services.TripPlanner

	closers []func() error
}

// New opens the store, applies the schema and wires adapters behind ports.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	conn, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DB: conn}
	a.closers = append(a.closers, conn.Close)

	routeCache := a.routeCache(ctx)

	var geocoder ports.Geocoder
	var router ports.SegmentRouter
	if !opts.Offline {
		geocoder, router, err = newProviders(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	engine, err := hos.NewEngine(cfg.Rules())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("wire app: %w", err)
	}

	plannerOpts := []services.TripPlannerOption{
		services.WithStartOfDay(cfg.Trip.StartHour, cfg.Location()),
	}
	if !opts.Ephemeral {
		plannerOpts = append(plannerOpts, services.WithRepository(repositories.NewSQLTripRepository(conn, cfg.Dialect())))
	}

	resolver := services.NewRouteResolver(geocoder, router, routeCache, cfg.Routing.ResolveTimeout)
	a.Planner = services.NewTripPlanner(resolver, engine, plannerOpts...)

	return a, nil
}

// OpenStore connects to the configured database and applies the schema.
func OpenStore(cfg *config.Config) (*sql.DB, error) {
	dialect := cfg.Dialect()

	if dialect == db.DialectSQLite && cfg.DSN() != ":memory:" {
		if dir := filepath.Dir(cfg.DSN()); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("open store: create %q: %w", dir, err)
			}
		}
	}

	conn, err := db.Open(dialect, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return conn, nil
}

// routeCache prefers Redis when configured and reachable, else the SQL store.
func (a *App) routeCache(ctx context.Context) ports.RouteCache {
	cfg := a.Config
	sqlCache := cache.NewSQLRouteCache(a.DB, cfg.Dialect(), cfg.Database.CacheTTL)

	if cfg.Database.RedisURL == "" {
		return sqlCache
	}

	rc, err := cache.NewRedisRouteCache(cfg.Database.RedisURL, cfg.Database.CacheTTL)
	if err != nil {
		logger.Get().Warn("redis cache disabled", zap.Error(err))
		return sqlCache
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Get().Warn("redis unreachable, using sql route cache", zap.Error(err))
		rc.Close()
		return sqlCache
	}

	a.closers = append(a.closers, rc.Close)
	return rc
}

func newProviders(cfg *config.Config) (ports.Geocoder, ports.SegmentRouter, error) {
	session := routing.NewHTTPClient(cfg.Routing.ResolveTimeout)

	switch cfg.Routing.Provider {
	case "ors":
		ors, err := routing.NewORSProvider(cfg.Routing.ORSAPIKey, session)
		if err != nil {
			return nil, nil, fmt.Errorf("wire routing: %w", err)
		}
		return ors, ors, nil
	default:
		geocoder, err := routing.NewNominatimGeocoder(cfg.Routing.NominatimBaseURL, cfg.Routing.GeocoderUserAgent, session)
		if err != nil {
			return nil, nil, fmt.Errorf("wire routing: %w", err)
		}
		router, err := routing.NewOSRMRouter(cfg.Routing.OSRMBaseURL, session)
		if err != nil {
			return nil, nil, fmt.Errorf("wire routing: %w", err)
		}
		return geocoder, router, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
