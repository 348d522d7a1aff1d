// @title                       User Directory API
// @version                     1.0
// @description                 Employees, clients and their lead-based scoping.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/leadbook/user-directory/internal/api"
	"github.com/leadbook/user-directory/internal/api/handler"
	"github.com/leadbook/user-directory/internal/core/service"
	"github.com/leadbook/user-directory/internal/infrastructure/db/mongo"
	"github.com/leadbook/user-directory/internal/infrastructure/db/redis"
	"github.com/leadbook/user-directory/internal/infrastructure/queue"
	"github.com/leadbook/user-directory/internal/pkg/config"
	"github.com/leadbook/user-directory/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-directory",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "user-directory",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db, logger.Component("mongo")); err != nil {
		return err
	}

	readiness := map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(mongo.NewAuditRepository(db), logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.Component("audit"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	opts := []service.UserServiceOption{
		service.WithEventPublisher(dispatcher),
		service.WithRoles(cfg.Users.Roles...),
		service.WithLocation(loc),
	}

	// --- Redis (optional creation guard) ---
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		opts = append(opts, service.WithCreationGuard(redis.NewCreationGuard(rdb, cfg.Redis.ClaimTTL)))
		readiness["redis"] = redisCheck(rdb)
	}

	users := service.NewUserService(
		mongo.NewUserRepository(db),
		mongo.NewLeadRepository(db),
		service.NewBcryptHasher(cfg.Users.BcryptCost),
		logger.Component("users"),
		opts...,
	)

	e := api.NewRouter(api.RouterConfig{
		Users:      users,
		JWTSecret:  cfg.JWTSecret,
		AllowPurge: cfg.Users.AllowPurge,
		Readiness:  readiness,
		Logger:     logger.Component("http"),
	})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, every authenticated route will answer 401")
	}
	if cfg.Users.AllowPurge {
		log.Warn().Msg("DELETE /admin/users is enabled")
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func redisCheck(rdb *goredis.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
