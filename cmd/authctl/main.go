// Command authctl provisions clients and users directly in the credential
// store. Clients can only be created this way.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"
	"github.com/oauthcore/auth-server/internal/core/security"
	mongostore "github.com/oauthcore/auth-server/internal/infrastructure/db/mongo"
	"github.com/oauthcore/auth-server/internal/pkg/config"
	"github.com/oauthcore/auth-server/pkg/logger"
)

// backend is the store surface authctl writes to.
type backend interface {
	ports.CredentialStore
	CreateClient(ctx context.Context, client domain.Client) error
}

// app carries what every subcommand needs. open is swapped out in tests.
type app struct {
	open   func(ctx context.Context) (backend, func(), error)
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, Service: "authctl"})

	a := &app{
		open:   mongoBackend(cfg),
		hasher: security.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency),
		log:    log,
	}

	if err := newRootCommand(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mongoBackend(cfg *config.Config) func(ctx context.Context) (backend, func(), error) {
	return func(ctx context.Context) (backend, func(), error) {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewCredentialStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	}
}
