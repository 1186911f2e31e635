// @title        Auth Server API
// @version      1.0
// @description  OAuth2 resource owner password flow, opaque bearer tokens and role-gated user management.
// @BasePath     /
//
// @securityDefinitions.basic   BasicAuth
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

	"github.com/oauthcore/auth-server/internal/api"
	"github.com/oauthcore/auth-server/internal/api/handler"
	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/core/security"
	"github.com/oauthcore/auth-server/internal/core/service"
	mongostore "github.com/oauthcore/auth-server/internal/infrastructure/db/mongo"
	redisstore "github.com/oauthcore/auth-server/internal/infrastructure/db/redis"
	"github.com/oauthcore/auth-server/internal/infrastructure/queue"
	"github.com/oauthcore/auth-server/internal/pkg/config"
	"github.com/oauthcore/auth-server/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "auth-server",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	mongoStore := mongostore.NewCredentialStore(db)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}
	store := redisstore.NewTokenCache(mongoStore, rdb, cfg.Auth.TokenCacheTTL, logger.WithComponent("token_cache"))

	var (
		sink   ports.TokenSink
		writer *queue.TokenWriter
	)
	switch cfg.Auth.TokenWriteMode {
	case config.WriteModeSync:
		sink = service.NewStoreSink(store)
	default:
		writer = queue.NewTokenWriter(cfg.Auth.TokenWriterWorkers, store, logger.WithComponent("token_writer"))
		writer.Start()
		sink = writer
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	users := service.NewUserService(store, hasher, logger.WithComponent("user_service"))

	e := api.NewRouter(api.Deps{
		Clients: service.NewClientAuthenticator(store, logger.WithComponent("client_authenticator")),
		Users: service.NewUserAuthenticator(
			store, hasher, security.NewTokenGenerator(), sink,
			logger.WithComponent("user_authenticator"),
		),
		Tokens:  service.NewTokenAuthenticator(store, logger.WithComponent("token_authenticator")),
		Service: users,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Realm: cfg.Realm,
		Log:   logger.WithComponent("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("token_write_mode", cfg.Auth.TokenWriteMode).Msg("auth server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// In-flight requests are done; flush the tokens they issued.
	if writer != nil {
		if err := writer.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("token writer did not drain")
		}
	}
	log.Info().Msg("auth server stopped")
}
