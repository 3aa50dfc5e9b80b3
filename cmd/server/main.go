package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/cache"
	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/domain/fiber/handler"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/fadilmartias/resume-analyzer/internal/middleware"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/fadilmartias/resume-analyzer/internal/service"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	logger.Init(logger.Config{Level: appConfig.LogLevel, Format: appConfig.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(appConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not initialise store")
	}

	llmConfig := config.LoadLLMConfig()
	provider, err := newProvider(ctx, llmConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not initialise completion provider")
	}
	analyzer, err := service.NewAnalysisService(provider, llmConfig.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not initialise analysis service")
	}

	opts := usecase.Options{
		PersistFailureMode: appConfig.PersistFailureMode,
		Retries:            llmConfig.Retries,
		RetryDelay:         llmConfig.RetryDelay,
	}
	var filterCache usecase.FilterOptionsCache
	if redisConfig := config.LoadRedisConfig(); redisConfig.Addr != "" {
		client, err := cache.NewRedisClient(ctx, redisConfig)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, filter options cache disabled")
		} else {
			defer client.Close()
			filterCache = cache.NewFilterOptionsCache(client, redisConfig.FilterOptionsTTL)
			opts.Cache = filterCache
		}
	}

	extractor := util.NewExtractor(appConfig.PDFEngine)
	analysisUC := usecase.NewAnalysisUsecase(store, analyzer, extractor, opts)
	historyUC := usecase.NewHistoryUsecase(store, filterCache)

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		BodyLimit:    int(appConfig.UploadMaxBytes) + 1<<20,
		ErrorHandler: util.FiberErrorHandler,
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  appConfig.CORSAllowOrigins,
		ExposeHeaders: handler.HeaderHistoryRecorded + "," + handler.HeaderAnalysisID,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		// Next skips the middleware, so profiling is only served outside production
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(appConfig.RateLimitMax, appConfig.RateLimitWindow))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Resume Analysis API is running")
	})
	handler.NewAnalysisHandler(analysisUC, historyUC, appConfig.UploadDir, appConfig.UploadMaxBytes).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Debug().Int("goroutines", runtime.NumGoroutine()).Msg("runtime stats")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("port", appConfig.Port).Str("provider", analyzer.ProviderName()).Str("store", appConfig.StoreDriver).Msg("server running")
	if err := app.Listen(appConfig.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newStore(appConfig *config.AppConfig) (usecase.AnalysisStore, error) {
	switch appConfig.StoreDriver {
	case "memory":
		logger.Warn().Msg("using in-memory store, history is lost on restart")
		return repository.NewMemoryRepository(), nil
	case "postgres", "":
		db, err := repository.ConnectDB(config.LoadDBConfig(), appConfig)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(db); err != nil {
			return nil, err
		}
		return repository.NewAnalysisRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", appConfig.StoreDriver)
	}
}

func newProvider(ctx context.Context, llmConfig *config.LLMConfig) (service.CompletionProvider, error) {
	switch llmConfig.Provider {
	case config.ProviderGemini:
		return service.NewGeminiProvider(ctx, config.LoadGeminiConfig(), llmConfig.Temperature)
	case config.ProviderOpenRouter:
		return service.NewOpenRouterProvider(config.LoadOpenRouterConfig(), llmConfig.Temperature, llmConfig.Timeout)
	case config.ProviderOllama:
		return service.NewOllamaProvider(config.LoadOllamaConfig(), llmConfig.Temperature, &http.Client{Timeout: llmConfig.Timeout})
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", llmConfig.Provider)
	}
}
