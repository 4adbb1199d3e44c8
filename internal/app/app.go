// Package app wires configuration, storage, services and the event
// pipeline into a running application.
package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravchenko/notekeep-backend/internal/access"
	"github.com/mkravchenko/notekeep-backend/internal/adapter/postgres"
	activityrepo "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/activity"
	attachmentrepo "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/attachment"
	noterepo "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/note"
	sharerepo "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/share"
	userrepo "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/user"
	"github.com/mkravchenko/notekeep-backend/internal/auth"
	"github.com/mkravchenko/notekeep-backend/internal/config"
	"github.com/mkravchenko/notekeep-backend/internal/events"
	"github.com/mkravchenko/notekeep-backend/internal/sanitize"
	noteservice "github.com/mkravchenko/notekeep-backend/internal/service/note"
	shareservice "github.com/mkravchenko/notekeep-backend/internal/service/share"
	userservice "github.com/mkravchenko/notekeep-backend/internal/service/user"
	"github.com/mkravchenko/notekeep-backend/internal/upload"
)

// Services bundles the assembled service layer for the transport to call.
type Services struct {
	Notes  *noteservice.Service
	Shares *shareservice.Service
	Users  *userservice.Service
	JWT    *auth.JWTManager
}

// BuildServices assembles the full service layer over the given pool.
func BuildServices(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, publisher events.Publisher) *Services {
	users := userrepo.New(pool)
	notes := noterepo.New(pool)
	shares := sharerepo.New(pool)
	attachments := attachmentrepo.New(pool)
	activity := activityrepo.New(pool)

	tx := postgres.NewTxManager(pool)
	resolver := access.NewResolver(notes, shares)
	sanitizer := sanitize.NewHTMLSanitizer()
	validator := upload.NewValidator(upload.Policy{
		MaxSizeBytes:      cfg.Upload.MaxSizeBytes,
		AllowedExtensions: cfg.Upload.AllowedExtensions(),
		AllowedMIMETypes:  cfg.Upload.AllowedMIMETypes(),
	})
	hasher := userservice.NewBcryptHasher(cfg.Auth.PasswordHashCost)

	return &Services{
		Notes:  noteservice.NewService(logger, notes, attachments, resolver, sanitizer, validator, publisher, tx),
		Shares: shareservice.NewService(logger, shares, users, resolver, publisher, tx),
		Users:  userservice.NewService(logger, users, users, activity, hasher, publisher, cfg.Auth.MinPasswordLen),
		JWT:    auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
	}
}

// Run is the application entry point. It loads configuration, initializes
// the logger and the database pool, assembles the services, and blocks
// until the context is canceled. The transport layer is attached on top of
// the assembled services by cmd/server.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	publisher := events.NewAsyncPublisher(logger, activityrepo.New(pool), cfg.Events.BufferSize)
	defer publisher.Close()

	BuildServices(cfg, logger, pool, publisher)

	logger.Info("application ready")

	<-ctx.Done()

	logger.Info("shutting down")
	return nil
}
