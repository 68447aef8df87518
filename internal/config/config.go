package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"hos-logbook-service/internal/hos"
	"hos-logbook-service/internal/platform/db"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the service configuration.
// Tags used:
// - mapstructure: environment variable name, used by viper to unmarshal
// - default: value used when the variable is unset
// - required: if "true", error when the value is empty
type Config struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	Port        int    `mapstructure:"PORT" default:"8080"`

	Database DatabaseConfig `mapstructure:",squash"`
	Routing  RoutingConfig  `mapstructure:",squash"`
	Trip     TripConfig     `mapstructure:",squash"`
	HOS      HOSConfig      `mapstructure:",squash"`
}

// DatabaseConfig selects the trip store and the route cache backend.
type DatabaseConfig struct {
	Driver      string `mapstructure:"DB_DRIVER" default:"sqlite"`
	Path        string `mapstructure:"DB_PATH" default:"data/logbook.db"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL switches the route cache to Redis when set.
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL" default:"168h"`
}

// RoutingConfig configures the geocoding and routing providers.
type RoutingConfig struct {
	Provider          string        `mapstructure:"ROUTING_PROVIDER" default:"osrm"`
	ORSAPIKey         string        `mapstructure:"ORS_API_KEY"`
	OSRMBaseURL       string        `mapstructure:"OSRM_BASE_URL" default:"https://router.project-osrm.org" required:"true"`
	NominatimBaseURL  string        `mapstructure:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org" required:"true"`
	GeocoderUserAgent string        `mapstructure:"GEOCODER_USER_AGENT" default:"hos-logbook-service/1.0" required:"true"`
	ResolveTimeout    time.Duration `mapstructure:"RESOLVE_TIMEOUT" default:"10s"`
}

// TripConfig controls how trip start times are derived.
type TripConfig struct {
	Timezone  string `mapstructure:"TRIP_TIMEZONE" default:"UTC"`
	StartHour int    `mapstructure:"TRIP_START_HOUR" default:"8"`
}

// HOSConfig overrides the hours-of-service rule set.
type HOSConfig struct {
	MaxDrivingHours        float64 `mapstructure:"HOS_MAX_DRIVING_HOURS" default:"11"`
	DutyWindowHours        float64 `mapstructure:"HOS_DUTY_WINDOW_HOURS" default:"14"`
	BreakAfterDrivingHours float64 `mapstructure:"HOS_BREAK_AFTER_DRIVING_HOURS" default:"8"`
	BreakHours             float64 `mapstructure:"HOS_BREAK_HOURS" default:"0.5"`
	DailyRestHours         float64 `mapstructure:"HOS_DAILY_REST_HOURS" default:"10"`
	RestartHours           float64 `mapstructure:"HOS_RESTART_HOURS" default:"34"`
	CycleLimitHours        float64 `mapstructure:"HOS_CYCLE_LIMIT_HOURS" default:"70"`
	FuelIntervalMiles      float64 `mapstructure:"HOS_FUEL_INTERVAL_MILES" default:"1000"`
	FuelStopHours          float64 `mapstructure:"HOS_FUEL_STOP_HOURS" default:"0.25"`
	AverageSpeedMPH        float64 `mapstructure:"HOS_AVERAGE_SPEED_MPH" default:"55"`
}

// Load reads dir/.env (if present) into the process environment and then
// decodes the environment into a Config. Variables already set win over
// the file.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load config: read .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	var cfg Config

	if err := processTags(v, &cfg); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: unable to decode into struct: %w", err)
	}

	if err := validateRequired(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the requirements that depend on other settings.
func (c *Config) Validate() error {
	dialect, err := db.ParseDialect(c.Database.Driver)
	if err != nil {
		return fmt.Errorf("validate config: DB_DRIVER: %w", err)
	}
	if dialect == db.DialectPostgres && strings.TrimSpace(c.Database.DatabaseURL) == "" {
		return errors.New("validate config: DATABASE_URL is required when DB_DRIVER is postgres")
	}

	switch c.Routing.Provider {
	case "osrm":
	case "ors":
		if strings.TrimSpace(c.Routing.ORSAPIKey) == "" {
			return errors.New("validate config: ORS_API_KEY is required when ROUTING_PROVIDER is ors")
		}
	default:
		return fmt.Errorf("validate config: unsupported ROUTING_PROVIDER %q", c.Routing.Provider)
	}

	if c.Routing.ResolveTimeout <= 0 {
		return fmt.Errorf("validate config: RESOLVE_TIMEOUT must be positive, got %s", c.Routing.ResolveTimeout)
	}

	if c.Trip.StartHour < 0 || c.Trip.StartHour > 23 {
		return fmt.Errorf("validate config: TRIP_START_HOUR must be within 0..23, got %d", c.Trip.StartHour)
	}
	if _, err := time.LoadLocation(c.Trip.Timezone); err != nil {
		return fmt.Errorf("validate config: TRIP_TIMEZONE: %w", err)
	}

	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

// Dialect returns the parsed DB_DRIVER. Call after Validate.
func (c *Config) Dialect() db.Dialect {
	d, _ := db.ParseDialect(c.Database.Driver)
	return d
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.Dialect() == db.DialectPostgres {
		return c.Database.DatabaseURL
	}
	return c.Database.Path
}

// Location returns the time zone trips are planned in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Trip.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Rules converts the HOS overrides into an engine rule set.
func (c *Config) Rules() hos.Rules {
	h := c.HOS
	return hos.Rules{
		MaxDrivingHours:        h.MaxDrivingHours,
		DutyWindowHours:        h.DutyWindowHours,
		BreakAfterDrivingHours: h.BreakAfterDrivingHours,
		BreakHours:             h.BreakHours,
		DailyRestHours:         h.DailyRestHours,
		RestartHours:           h.RestartHours,
		CycleLimitHours:        h.CycleLimitHours,
		FuelIntervalMiles:      h.FuelIntervalMiles,
		FuelStopHours:          h.FuelStopHours,
		AverageSpeedMPH:        h.AverageSpeedMPH,
	}
}

// processTags binds every tagged field to its environment variable and
// registers its default.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("load config: bind %s: %w", key, err)
		}

		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
	return nil
}

// validateRequired checks that fields marked as required are non-zero.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
