package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"insurance-claims/backend/internal/audit"
	auditrepo "insurance-claims/backend/internal/audit/repository"
	authservice "insurance-claims/backend/internal/auth/service"
	"insurance-claims/backend/internal/authz"
	claimrepo "insurance-claims/backend/internal/claim/repository"
	claimservice "insurance-claims/backend/internal/claim/service"
	"insurance-claims/backend/internal/config"
	"insurance-claims/backend/internal/db"
	noterepo "insurance-claims/backend/internal/note/repository"
	noteservice "insurance-claims/backend/internal/note/service"
	policyrepo "insurance-claims/backend/internal/policy/repository"
	policyservice "insurance-claims/backend/internal/policy/service"
	"insurance-claims/backend/internal/security"
	"insurance-claims/backend/internal/server"
	sessionrepo "insurance-claims/backend/internal/session/repository"
	"insurance-claims/backend/internal/telemetry/otel"
	userrepo "insurance-claims/backend/internal/user/repository"
	userservice "insurance-claims/backend/internal/user/service"
)

const serviceName = "claims-backend"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		logger.Fatal().Err(err).Msg("telemetry")
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	database, err := db.Open(cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("database")
	}
	defer database.Close()

	rules, err := authz.NewOPAEvaluator(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("authorization rules")
	}

	users := userrepo.NewPostgresRepository(database)
	claims := claimrepo.NewPostgresRepository(database)
	policies := policyrepo.NewPostgresRepository(database)
	notes := noterepo.NewPostgresRepository(database)
	sessions := sessionrepo.NewPostgresRepository(database)
	audits := auditrepo.NewPostgresRepository(database)

	auditLog := audit.NewLogger(audits, server.ClientIPFromContext)
	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider([]byte(cfg.SessionSecret), serviceName, cfg.SessionDuration())

	authSvc := authservice.NewAuthService(users, sessions, hasher, tokens, auditLog)
	userSvc := userservice.NewUserService(users, sessions, rules, auditLog, cfg.BaseURL, cfg.InviteDuration())
	claimSvc := claimservice.NewClaimService(claims, users, rules, auditLog)
	policySvc := policyservice.NewPolicyService(policies, rules, auditLog)
	noteSvc := noteservice.NewNoteService(notes, claims, rules)

	srv := server.New(authSvc, claimSvc, userSvc, policySvc, noteSvc, server.Options{
		Logger:         logger,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookies:  cfg.Env == "production",
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("HTTP server stopped")
}
