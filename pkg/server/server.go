// Package server assembles and runs the advisor HTTP service.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/api"
	"github.com/stratus-tools/stratus-advisor/internal/config"
	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/admin"
	"github.com/stratus-tools/stratus-advisor/internal/services/advisor"
	"github.com/stratus-tools/stratus-advisor/internal/services/anthropic"
	"github.com/stratus-tools/stratus-advisor/internal/services/cache"
	"github.com/stratus-tools/stratus-advisor/internal/services/database"
	"github.com/stratus-tools/stratus-advisor/internal/services/feedback"
	"github.com/stratus-tools/stratus-advisor/internal/services/middleware"
	"github.com/stratus-tools/stratus-advisor/internal/services/querylog"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// Server is one advisor service instance.
type Server struct {
	config *config.Config
	app    *fiber.App
	redis  *redis.Client
	db     *database.DB
}

// New creates a Server from a loaded configuration. The cfg parameter
// is required and must not be nil.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		panic("config cannot be nil - use config.LoadFromFile() to create config")
	}
	return &Server{config: cfg}
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogLevel(s.config)

	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}
	listenAddr := ":" + port

	s.app = createFiberApp(s.config)

	db, err := database.New(*s.config.Database)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	s.db = db
	defer func() {
		if err := s.db.Close(); err != nil {
			fiberlog.Errorf("Failed to close database connection: %v", err)
		}
	}()

	if err := database.Migrate(s.db.DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	redisClient, err := createRedisClient(s.config)
	if err != nil {
		return err
	}
	s.redis = redisClient
	if s.redis != nil {
		defer func() {
			if err := s.redis.Close(); err != nil {
				fiberlog.Errorf("Failed to close Redis client: %v", err)
			}
		}()
	}

	setupMiddleware(s.app, s.config)

	if err := s.setupRoutes(); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	s.app.Get("/", welcomeHandler())

	fmt.Printf("STRATUS Bug Advisor starting on %s\n", listenAddr)
	fmt.Printf("   Environment: %s\n", s.config.Server.Environment)
	fmt.Printf("   Go version: %s\n", runtime.Version())
	fmt.Printf("   GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(listenAddr); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		fiberlog.Infof("Received signal: %v. Starting graceful shutdown...", sig)
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		fiberlog.Info("Context cancelled, starting shutdown...")
	}

	fiberlog.Info("Server shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	shutdownErrChan := make(chan error, 1)
	go func() {
		shutdownErrChan <- s.app.ShutdownWithTimeout(30 * time.Second)
	}()

	select {
	case err := <-shutdownErrChan:
		if err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		fiberlog.Info("Server shutdown completed successfully")
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown timeout exceeded")
	}

	return nil
}

func (s *Server) setupRoutes() error {
	llm := anthropic.NewService(s.config.Anthropic)

	answerCache := buildAnswerCache(s.config, s.redis, s.db)
	logsSvc := querylog.NewService(s.db.DB)
	feedbackSvc := feedback.NewService(s.db.DB)
	pipeline := advisor.NewService(llm, answerCache, logsSvc)

	adminSvc := admin.NewService(s.db.DB, s.config.Admin, logsSvc, feedbackSvc, llm)

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := adminSvc.Bootstrap(startupCtx); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}
	// A key saved through the admin surface outlives restarts.
	adminSvc.LoadStoredAPIKey(startupCtx)

	analyzeHandler := api.NewAnalyzeHandler(pipeline)
	feedbackHandler := api.NewFeedbackHandler(feedbackSvc)
	healthHandler := api.NewHealthHandler(s.db.DB, s.redis, llm)
	adminHandler := api.NewAdminHandler(adminSvc, llm)
	authMiddleware := middleware.NewAuthMiddleware(adminSvc)

	apiGroup := s.app.Group("/api")
	apiGroup.Post("/analyze", analyzeHandler.Analyze)
	apiGroup.Post("/feedback", feedbackHandler.Submit)
	apiGroup.Get("/health", healthHandler.HealthCheck)

	adminGroup := apiGroup.Group("/admin")
	adminGroup.Post("/login", adminHandler.Login)
	adminGroup.Get("/analytics", authMiddleware.RequireAuth(), adminHandler.Analytics)
	adminGroup.Get("/config", authMiddleware.RequireAuth(), adminHandler.GetConfig)
	adminGroup.Put("/config", authMiddleware.RequireAuth(), adminHandler.UpdateConfig)
	adminGroup.Post("/test-connection", authMiddleware.RequireAuth(), adminHandler.TestConnection)

	return nil
}

// buildAnswerCache wires the enabled tiers. With caching disabled it
// returns nil and the pipeline treats every query as a miss.
func buildAnswerCache(cfg *config.Config, redisClient *redis.Client, db *database.DB) advisor.AnswerCache {
	if !cfg.Cache.Enabled {
		fiberlog.Info("Answer cache disabled")
		return nil
	}
	ttl := cfg.Cache.AnswerTTL()

	var fast cache.Tier
	if redisClient != nil {
		fast = cache.NewRedisTier(redisClient, ttl)
	}
	durable := cache.NewDurableTier(db.DB, ttl)

	return cache.NewTwoTier(fast, durable, ttl)
}

func createFiberApp(cfg *config.Config) *fiber.App {
	isProd := cfg.IsProduction()

	return fiber.New(fiber.Config{
		AppName:              "STRATUS Bug Advisor v" + api.Version,
		EnablePrintRoutes:    !isProd,
		ReadTimeout:          2 * time.Minute,
		WriteTimeout:         2 * time.Minute,
		IdleTimeout:          5 * time.Minute,
		ReadBufferSize:       8192,
		WriteBufferSize:      8192,
		CompressedFileSuffix: ".gz",
		Prefork:              false,
		CaseSensitive:        true,
		StrictRouting:        false,
		Network:              "tcp",
		ServerHeader:         "StratusAdvisor",
	})
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	isProd := cfg.IsProduction()

	// Recover middleware (must be first)
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !isProd,
	}))

	if !cfg.RateLimit.Disabled {
		max := cfg.RateLimit.Limit()
		window := cfg.RateLimit.Window()
		app.Use(limiter.New(limiter.Config{
			Max:               max,
			Expiration:        window,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/api/health"
			},
			LimitReached: func(c *fiber.Ctx) error {
				appErr := models.NewRateLimitError(
					fmt.Sprintf("Limit of %d requests per %v exceeded", max, window))
				return c.Status(appErr.StatusCode).JSON(fiber.Map{
					"error":   string(appErr.Type),
					"message": appErr.Message,
					"status":  "error",
				})
			},
		}))
	}

	// Bound every request context so a hung upstream call cannot pin a
	// connection forever.
	app.Use(func(c *fiber.Ctx) error {
		const (
			defaultTimeout = 60 * time.Second
			maxTimeout     = 2 * time.Minute
		)

		timeout := defaultTimeout
		if customTimeout := c.Get("X-Request-Timeout"); customTimeout != "" {
			if d, err := time.ParseDuration(customTimeout); err == nil && d > 0 {
				timeout = min(d, maxTimeout)
			}
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		return c.Next()
	})

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	if isProd {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency} ${bytesSent}b\n",
			Output: os.Stdout,
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
			Output: os.Stdout,
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, User-Agent, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
	}))
}

func setupLogLevel(cfg *config.Config) {
	logLevel := cfg.GetNormalizedLogLevel()

	switch logLevel {
	case "trace":
		fiberlog.SetLevel(fiberlog.LevelTrace)
	case "debug":
		fiberlog.SetLevel(fiberlog.LevelDebug)
	case "info":
		fiberlog.SetLevel(fiberlog.LevelInfo)
	case "warn", "warning":
		fiberlog.SetLevel(fiberlog.LevelWarn)
	case "error":
		fiberlog.SetLevel(fiberlog.LevelError)
	case "fatal":
		fiberlog.SetLevel(fiberlog.LevelFatal)
	case "panic":
		fiberlog.SetLevel(fiberlog.LevelPanic)
	default:
		fiberlog.SetLevel(fiberlog.LevelInfo)
		fiberlog.Warnf("Unknown log level '%s', defaulting to 'info'", logLevel)
	}

	fiberlog.Infof("Log level set to: %s", logLevel)
}

func createRedisClient(cfg *config.Config) (*redis.Client, error) {
	redisURL := cfg.Cache.RedisURL
	if !cfg.Cache.Enabled || redisURL == "" {
		fiberlog.Info("Redis not configured - answer cache runs on the database tier only")
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 50
	opt.MinIdleConns = 10
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	opt.ConnMaxLifetime = 30 * time.Minute
	opt.DialTimeout = 10 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.MaxRetries = 3
	opt.MinRetryBackoff = 8 * time.Millisecond
	opt.MaxRetryBackoff = 512 * time.Millisecond

	client := redis.NewClient(opt)
	return testRedisConnectionWithRetry(client)
}

func testRedisConnectionWithRetry(client *redis.Client) (*redis.Client, error) {
	const maxAttempts = 3
	const baseDelay = 1 * time.Second

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()

		if err == nil {
			fiberlog.Infof("Redis connection established successfully (attempt %d/%d)", attempt, maxAttempts)
			return client, nil
		}

		fiberlog.Warnf("Redis connection failed (attempt %d/%d): %v", attempt, maxAttempts, err)

		if attempt < maxAttempts {
			delay := time.Duration(attempt) * baseDelay
			fiberlog.Infof("Retrying Redis connection in %v...", delay)
			time.Sleep(delay)
		}
	}

	// Redis is an optional tier. The cache falls back to the database.
	if err := client.Close(); err != nil {
		fiberlog.Errorf("Failed to close Redis client after connection failures: %v", err)
	}
	fiberlog.Warn("Continuing without Redis after repeated connection failures")
	return nil, nil
}

func welcomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "STRATUS Bug Advisor",
			"version": api.Version,
			"status":  "running",
		})
	}
}
