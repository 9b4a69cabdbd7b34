package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	authhandler "github.com/jwalitptl/frontdesk-api/internal/handler/auth"
	cataloghandler "github.com/jwalitptl/frontdesk-api/internal/handler/catalog"
	"github.com/jwalitptl/frontdesk-api/internal/handler/health"
	registrationhandler "github.com/jwalitptl/frontdesk-api/internal/handler/registration"
	schedulehandler "github.com/jwalitptl/frontdesk-api/internal/handler/schedule"
	texthandler "github.com/jwalitptl/frontdesk-api/internal/handler/text"
	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/internal/repository/postgres"
	"github.com/jwalitptl/frontdesk-api/internal/router"
	"github.com/jwalitptl/frontdesk-api/internal/service/abbreviation"
	authService "github.com/jwalitptl/frontdesk-api/internal/service/auth"
	"github.com/jwalitptl/frontdesk-api/internal/service/catalog"
	"github.com/jwalitptl/frontdesk-api/internal/service/notification"
	"github.com/jwalitptl/frontdesk-api/internal/service/registration"
	"github.com/jwalitptl/frontdesk-api/internal/service/schedule"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging/redis"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/security"
)

// demoScheduleDays is how far ahead the built-in schedules reach.
const demoScheduleDays = 14

func main() {
	// hash-password prints a bcrypt hash for auth.staff entries
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		var policy security.HashPolicy
		if cfg, err := config.LoadConfig(); err == nil {
			policy = hashPolicy(cfg.Auth)
		}
		hash, err := security.NewBcryptHasher(policy).Hash(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// A missing .env is fine when the environment is injected
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Log.Format == "console",
	})
	log.Logger = appLog.ZL
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.Metrics.Namespace, registry)

	// Storage
	var (
		catalogRepo  repository.CatalogRepository
		scheduleRepo repository.ScheduleRepository
		checks       = map[string]repository.Pinger{}
	)
	if cfg.Database.Enabled() {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		catalogRepo = postgres.NewCatalogRepository(db)
		scheduleRepo = postgres.NewScheduleRepository(db)
		checks["database"] = db
	} else {
		appLog.Warn("database.host is empty, serving the built-in demo catalog and schedules")
		catalogRepo = memory.NewCatalogRepository(memory.DemoServices())
		scheduleRepo = memory.NewScheduleRepository(memory.DemoSchedules(time.Now(), demoScheduleDays))
	}

	readCache := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	catalogSvc := catalog.NewService(catalogRepo, readCache, m, appLog)
	scheduleSvc := schedule.NewService(scheduleRepo, readCache, m, appLog)

	// Registration pipeline
	gateway, err := registration.NewGateway(registration.GatewayConfig{
		Mode:           cfg.Gateway.Mode,
		BaseURL:        cfg.Gateway.BaseURL,
		Timeout:        cfg.Gateway.Timeout,
		SimulatedDelay: cfg.Gateway.SimulatedDelay,
	}, appLog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create registration gateway")
	}

	var listeners []registration.Listener
	if cfg.Redis.Enabled() {
		broker, err := redis.NewRedisBroker(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLog, m)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
		listeners = append(listeners, notification.NewBrokerListener(broker, cfg.Redis.Channel))
	}
	if cfg.SMTP.Enabled() {
		listeners = append(listeners, notification.NewEmailListener(cfg.SMTP, appLog))
	}

	controller := registration.NewController(registration.NewMapper(nil), gateway, appLog, m, listeners...)
	expander := abbreviation.New(cfg.AbbreviationMap())

	// Staff authentication
	var (
		authMiddleware *middleware.AuthMiddleware
		authHandler    router.Handler
	)
	if cfg.Auth.Enabled() {
		authSvc := authService.NewService(cfg.Auth, security.NewBcryptHasher(hashPolicy(cfg.Auth)), appLog)
		authMiddleware = middleware.NewAuthMiddleware(authSvc)
		authHandler = authhandler.NewHandler(authSvc)
	} else {
		appLog.Warn("auth.secret is empty, API routes are not authenticated")
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		gatherer = registry
	}
	var limit rate.Limit
	if cfg.RateLimit.Enabled {
		limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
	}

	r := router.NewRouter(
		authMiddleware,
		authHandler,
		health.NewHandler(gateway.Name(), checks),
		m,
		router.RouterConfig{
			RateLimit:      limit,
			RateBurst:      cfg.RateLimit.Burst,
			CORSConfig:     middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
			RequestTimeout: cfg.Server.RequestTimeout,
			MetricsPath:    cfg.Metrics.Path,
			Gatherer:       gatherer,
		},
		registrationhandler.NewHandler(controller, expander),
		schedulehandler.NewHandler(scheduleSvc),
		cataloghandler.NewHandler(catalogSvc),
		texthandler.NewHandler(expander),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		appLog.Info("server listening", "addr", srv.Addr, "gateway", gateway.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	controller.Wait()

	log.Info().Msg("server exited properly")
}

func hashPolicy(cfg config.AuthConfig) security.HashPolicy {
	return security.HashPolicy{Cost: cfg.BcryptCost, MinLength: cfg.MinPasswordLength}
}
