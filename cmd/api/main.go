package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"hiremate/internal/adapter"
	"hiremate/internal/adapter/narrative"
	"hiremate/internal/cache"
	"hiremate/internal/config"
	"hiremate/internal/database"
	"hiremate/internal/domain"
	"hiremate/internal/handler"
	"hiremate/internal/logger"
	"hiremate/internal/middleware"
	"hiremate/internal/repository"
	"hiremate/internal/service"
)

// expireSweepInterval is how often stale in-progress attempts are swept.
const expireSweepInterval = time.Minute

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger.Env); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN(), cfg.DB)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Oracle database")

	// Redis is optional: without it reports are recomputed per request
	// and live updates are not broadcast.
	var cacheAdapter domain.Cache = adapter.NoopCache{}
	var broadcaster domain.Broadcaster = adapter.NoopBroadcaster{}
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		broadcaster = adapter.NewRedisBroadcaster(redisClient)
	} else {
		appLogger.Warn("Redis not configured, report caching and broadcasts disabled")
	}

	// Narrative generation is optional; without a configured language
	// model server the deterministic generator serves alone.
	templateGen := narrative.NewTemplateNarrative()
	var narrativeGen domain.NarrativeGenerator
	if cfg.Narrative.ServerURL != "" {
		ollamaHTTPClient := &http.Client{Timeout: cfg.Narrative.Timeout}
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.Narrative.ServerURL),
			ollama.WithModel(cfg.Narrative.Model),
			ollama.WithHTTPClient(ollamaHTTPClient),
		)
		if err != nil {
			appLogger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		narrativeGen = narrative.NewOllamaNarrative(llm, cfg.Narrative.Timeout)
		appLogger.Info("Ollama narrative generator initialized",
			zap.String("server_url", cfg.Narrative.ServerURL),
			zap.String("model", cfg.Narrative.Model))
	}

	// Repositories
	eventRepo := repository.NewSQLXEventRepository(db)
	attemptRepo := repository.NewSQLXAttemptRepository(db)
	taskRepo := repository.NewSQLXTaskRepository(db)
	candidateRepo := repository.NewSQLXCandidateRepository(db)
	recruiterRepo := repository.NewSQLXRecruiterRepository(db)
	populationRepo := repository.NewSQLXPopulationRepository(db)
	outcomeRepo := repository.NewSQLXOutcomeRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	eventService := service.NewEventService(eventRepo, attemptRepo, txManager, broadcaster, cfg)
	metricsService := service.NewMetricsService(eventRepo, taskRepo, cfg)
	skillService := service.NewSkillService(cfg)
	behaviorService := service.NewBehaviorService(cfg)
	consistencyService := service.NewConsistencyService(cfg)
	fitScoreService := service.NewFitScoreService(outcomeRepo, cfg)
	populationService := service.NewPopulationService(populationRepo, txManager)
	confidenceService := service.NewConfidenceService()
	attemptService := service.NewAttemptService(attemptRepo, candidateRepo, taskRepo, cfg)
	reportService := service.NewReportService(
		attemptService,
		metricsService,
		skillService,
		behaviorService,
		consistencyService,
		fitScoreService,
		populationService,
		confidenceService,
		candidateRepo,
		narrativeGen,
		templateGen,
		cacheAdapter,
		broadcaster,
	)
	authService, err := service.NewAuthService(recruiterRepo, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Handlers
	attemptHandler := handler.NewAttemptHandler(attemptService, reportService, fitScoreService)
	eventHandler := handler.NewEventHandler(eventService)
	reportHandler := handler.NewReportHandler(reportService, fitScoreService)
	authHandler := handler.NewAuthHandler(authService, recruiterRepo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Get("/me", middleware.Protected(authService), authHandler.Profile)

	// Candidate-facing attempt routes
	apiGroup.Post("/attempts", middleware.Protected(authService), attemptHandler.Create)
	apiGroup.Get("/attempts/:id", attemptHandler.Get)
	apiGroup.Post("/attempts/:id/start", attemptHandler.Start)
	apiGroup.Post("/attempts/:id/complete", attemptHandler.Complete)
	apiGroup.Post("/attempts/:id/abandon", attemptHandler.Abandon)
	apiGroup.Post("/attempts/:id/events", eventHandler.Ingest)
	apiGroup.Post("/attempts/:id/events/batch", eventHandler.IngestBatch)

	// Recruiter routes
	apiGroup.Get("/candidates/:id/attempts", middleware.Protected(authService), attemptHandler.ListByCandidate)
	apiGroup.Get("/attempts/:id/events", middleware.Protected(authService), eventHandler.List)
	apiGroup.Get("/attempts/:id/report", middleware.Protected(authService), reportHandler.Live)
	apiGroup.Get("/attempts/:id/fit-score", middleware.Protected(authService), reportHandler.FitScore)
	apiGroup.Post("/attempts/:id/override", middleware.Protected(authService), attemptHandler.Override)
	apiGroup.Get("/attempts/:id/overrides", middleware.Protected(authService), attemptHandler.ListOverrides)
	apiGroup.Get("/population/summary", middleware.Protected(authService), reportHandler.PopulationSummary)

	// Background sweep for stale attempts.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(expireSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := attemptService.ExpireStale(sweepCtx); err != nil {
					appLogger.Warn("Stale attempt sweep failed", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
