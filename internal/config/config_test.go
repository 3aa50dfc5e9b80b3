package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "PERSIST_FAILURE_MODE", "UPLOAD_MAX_BYTES", "RATE_LIMIT_WINDOW"} {
		t.Setenv(k, "")
	}
	cfg := newAppConfig()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":5000", cfg.Port)
	assert.Equal(t, PersistFailureFail, cfg.PersistFailureMode)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.IsProduction())
}

func TestNewAppConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PERSIST_FAILURE_MODE", "degrade")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	cfg := newAppConfig()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, PersistFailureDegrade, cfg.PersistFailureMode)
	assert.Equal(t, int64(1024), cfg.UploadMaxBytes)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestUnknownPersistModeFallsBack(t *testing.T) {
	t.Setenv("PERSIST_FAILURE_MODE", "sometimes")
	assert.Equal(t, PersistFailureFail, newAppConfig().PersistFailureMode)
}

func TestDSN(t *testing.T) {
	c := &DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())

	c.URL = "postgres://u:p@db:5432/n"
	assert.Equal(t, "postgres://u:p@db:5432/n", c.DSN())
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	assert.Equal(t, 7, getEnvInt("X_INT", 7))
	assert.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
}
