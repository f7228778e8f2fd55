package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/eaglebank/account-api/internal/audit"
	accountcmd "github.com/eaglebank/account-api/internal/command"
	"github.com/eaglebank/account-api/internal/config"
	"github.com/eaglebank/account-api/internal/database"
	"github.com/eaglebank/account-api/internal/handler"
	accountqry "github.com/eaglebank/account-api/internal/query"
	"github.com/eaglebank/account-api/internal/repository"
	"github.com/eaglebank/account-api/shared/events"
	"github.com/eaglebank/account-api/shared/logger"
	"github.com/eaglebank/account-api/shared/middleware"
	redisClient "github.com/eaglebank/account-api/shared/redis"
	"github.com/eaglebank/account-api/shared/token"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const eventStreamMaxLen = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "", os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.AppEnv, os.Stdout)

	// Database connection (write store)
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisClient.NewClient(context.Background(), redisClient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redis.Close()

	issuer, err := token.NewIssuer(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token issuer")
	}

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client, eventStreamMaxLen)

	writeRepo := repository.NewAccountWriteRepository(db)
	readRepo := repository.NewAccountReadRepository(db, redis.Client, log)

	commandSvc := accountcmd.NewAccountCommandService(writeRepo, readRepo, publisher, log)
	querySvc := accountqry.NewAccountQueryService(readRepo, issuer)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(log), middleware.MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "postgres"})
			return
		}
		if err := redis.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := handler.NewAccountHandler(commandSvc, querySvc, handler.AdminOptions, log)
	admin.RegisterRoutes(router.Group(cfg.Routes.AdminBasePath))

	selfService := handler.NewAccountHandler(commandSvc, querySvc, handler.SelfServiceOptions, log)
	selfService.RegisterRoutes(router.Group(cfg.Routes.SelfServiceBasePath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hostname, _ := os.Hostname()
	subscriber := audit.NewSubscriber(redis.Client, "audit-"+hostname, log)
	go func() {
		if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("audit subscriber stopped")
		}
	}()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("admin", cfg.Routes.AdminBasePath).
			Str("self_service", cfg.Routes.SelfServiceBasePath).
			Msg("account api starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
