package config

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Persistence failure policies for a successful analysis whose save fails.
const (
	PersistFailureFail    = "fail"
	PersistFailureDegrade = "degrade"
)

type AppConfig struct {
	Name               string
	Env                string
	Port               string
	CORSAllowOrigins   string
	UploadDir          string
	UploadMaxBytes     int64
	RateLimitMax       int
	RateLimitWindow    time.Duration
	PersistFailureMode string
	PDFEngine          string
	StoreDriver        string
	LogLevel           string
	LogFormat          string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = newAppConfig()
	})
	return appConfig
}

func newAppConfig() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
		log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
	}
	mode := getEnv("PERSIST_FAILURE_MODE", PersistFailureFail)
	if mode != PersistFailureFail && mode != PersistFailureDegrade {
		log.Printf("Warning: unknown PERSIST_FAILURE_MODE %q, using %s", mode, PersistFailureFail)
		mode = PersistFailureFail
	}
	return &AppConfig{
		Name:               getEnv("APP_NAME", "resume-analyzer"),
		Env:                env,
		Port:               getEnv("APP_PORT", ":5000"),
		CORSAllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),
		UploadDir:          getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "resume-uploads")),
		UploadMaxBytes:     getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 50),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		PersistFailureMode: mode,
		PDFEngine:          getEnv("PDF_ENGINE", "native"),
		StoreDriver:        getEnv("STORE_DRIVER", "postgres"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
