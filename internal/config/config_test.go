package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hos-logbook-service/internal/hos"
	"hos-logbook-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "LOG_LEVEL", "PORT",
	"DB_DRIVER", "DB_PATH", "DATABASE_URL", "REDIS_URL", "CACHE_TTL",
	"ROUTING_PROVIDER", "ORS_API_KEY", "OSRM_BASE_URL", "NOMINATIM_BASE_URL", "GEOCODER_USER_AGENT", "RESOLVE_TIMEOUT",
	"TRIP_TIMEZONE", "TRIP_START_HOUR",
	"HOS_MAX_DRIVING_HOURS", "HOS_CYCLE_LIMIT_HOURS", "HOS_BREAK_HOURS",
}

// clearEnv unsets every key the tests touch and restores a clean state afterwards,
// since godotenv writes straight into the process environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range managedKeys {
			os.Unsetenv(k)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, db.DialectSQLite, cfg.Dialect())
	assert.Equal(t, "data/logbook.db", cfg.DSN())
	assert.Equal(t, 168*time.Hour, cfg.Database.CacheTTL)
	assert.Equal(t, "osrm", cfg.Routing.Provider)
	assert.Equal(t, 10*time.Second, cfg.Routing.ResolveTimeout)
	assert.Equal(t, 8, cfg.Trip.StartHour)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, hos.DefaultRules(), cfg.Rules())
}

func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	os.Setenv("APP_ENV", "production")
	os.Setenv("PORT", "9090")
	os.Setenv("DB_DRIVER", "postgres")
	os.Setenv("DATABASE_URL", "postgres://u:p@localhost/logbook")
	os.Setenv("ROUTING_PROVIDER", "ors")
	os.Setenv("ORS_API_KEY", "key-123")
	os.Setenv("RESOLVE_TIMEOUT", "3s")
	os.Setenv("TRIP_TIMEZONE", "America/Chicago")
	os.Setenv("HOS_CYCLE_LIMIT_HOURS", "60")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, db.DialectPostgres, cfg.Dialect())
	assert.Equal(t, "postgres://u:p@localhost/logbook", cfg.DSN())
	assert.Equal(t, "key-123", cfg.Routing.ORSAPIKey)
	assert.Equal(t, 3*time.Second, cfg.Routing.ResolveTimeout)
	assert.Equal(t, "America/Chicago", cfg.Location().String())
	assert.Equal(t, 60.0, cfg.Rules().CycleLimitHours)
	assert.Equal(t, 11.0, cfg.Rules().MaxDrivingHours)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	content := []byte("LOG_LEVEL=warn\nTRIP_START_HOUR=8\nREDIS_URL=redis://localhost:6379/0\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), content, 0o600))

	// Variables already present win over the file.
	os.Setenv("TRIP_START_HOUR", "7")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7, cfg.Trip.StartHour)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Database.RedisURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"ors without key", map[string]string{"ROUTING_PROVIDER": "ors"}, "ORS_API_KEY"},
		{"unknown provider", map[string]string{"ROUTING_PROVIDER": "google"}, "ROUTING_PROVIDER"},
		{"start hour", map[string]string{"TRIP_START_HOUR": "24"}, "TRIP_START_HOUR"},
		{"timezone", map[string]string{"TRIP_TIMEZONE": "Mars/Olympus"}, "TRIP_TIMEZONE"},
		{"rules", map[string]string{"HOS_BREAK_HOURS": "12"}, "break"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			_, err := Load(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateRequired(t *testing.T) {
	cfg := Config{}
	err := validateRequired(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OSRM_BASE_URL")

	cfg.Routing.OSRMBaseURL = "http://osrm"
	cfg.Routing.NominatimBaseURL = "http://nominatim"
	cfg.Routing.GeocoderUserAgent = "test"
	assert.NoError(t, validateRequired(&cfg))
}
