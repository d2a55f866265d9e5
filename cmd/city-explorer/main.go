package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	httpapi "cityexplorer/internal/api/http"
	"cityexplorer/internal/auth"
	"cityexplorer/internal/config"
	"cityexplorer/internal/explore"
	"cityexplorer/internal/explore/clients"
	"cityexplorer/internal/health"
	"cityexplorer/internal/records"
	"cityexplorer/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Record store: Mongo when configured, in-memory otherwise. An
	// unreachable database is not fatal; storage routes return 503
	// until the health monitor sees it come up.
	var (
		recStore records.Store
		pinger   health.Pinger
	)
	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		mongoStore, err := store.NewMongoStore(connectCtx, cfg.MongoURI)
		cancel()
		if err != nil {
			log.Fatalf("failed to set up mongo store: %v", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoStore.Close(closeCtx); err != nil {
				log.Printf("error closing mongo store: %v", err)
			}
		}()
		recStore, pinger = mongoStore, mongoStore
	} else {
		log.Println("MONGODB_URI not set; using in-memory record store")
		memStore := store.NewMemoryStore()
		recStore, pinger = memStore, memStore
	}

	// Store health monitor.
	monitor := health.New(pinger, cfg.HealthInterval)
	if err := monitor.Start(); err != nil {
		log.Fatalf("failed to start health monitor: %v", err)
	}
	defer monitor.Stop()

	// Upstream adapters and the aggregation service.
	explorer := explore.NewService(
		clients.NewGeoDBClient(httpClient, cfg.RapidAPIKey, cfg.RapidAPIHost),
		clients.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey),
		clients.NewRestCountriesClient(httpClient),
	)

	recorder := records.NewService(recStore)

	// Sessions, OAuth and the API-key gate.
	sessions := auth.NewSessions(cfg.SessionMaxAge)
	authenticator := auth.NewAuthenticator(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		CallbackURL:  cfg.GoogleCallbackURL,
	})
	gate := httpapi.NewGate(cfg.AppAPIKey, sessions)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "city-explorer",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins(), ", "),
		AllowCredentials: true,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:     "Content-Type, Authorization, x-api-key",
	}))

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		database := "connected"
		if err := pinger.CheckHealth(ctx); err != nil {
			database = "disconnected"
		}

		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "city-explorer",
			"database": database,
		})
	})

	// API routes.
	httpapi.RegisterAuthRoutes(app, authenticator, sessions)
	httpapi.RegisterRoutes(app, explorer, recorder, gate)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
