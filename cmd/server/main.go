package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"medlookup/internal/auth"
	"medlookup/internal/config"
	"medlookup/internal/core"
	"medlookup/internal/db"
	httpserver "medlookup/internal/http"
	"medlookup/internal/llm"
	"medlookup/internal/logger"
	"medlookup/internal/ocr"
	"medlookup/internal/session"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl := logger.New(cfg.App.LogFilePath, cfg.IsProduction())
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, closeDB, err := buildVerifier(ctx, cfg, logger.Module(zl, "auth"))
	if err != nil {
		zl.Fatal("failed to set up credential check", zap.Error(err))
	}
	defer closeDB()

	completer, err := llm.New(cfg.LLM)
	if err != nil {
		zl.Fatal("failed to set up completion service", zap.Error(err))
	}

	engine := ocr.NewTesseractEngine(cfg.OCR.Languages...)
	zl.Info("ocr engine ready",
		zap.String("engine", engine.Name()),
		zap.String("version", engine.Version()),
		zap.Strings("languages", cfg.OCR.Languages),
	)

	lookup := core.NewLookupService(completer, engine, logger.Module(zl, "lookup"), cfg.OCR.MaxDimension)
	sessions := session.NewStore(cfg.App.SessionTTL)

	srv, err := httpserver.NewServer(verifier, lookup, sessions, logger.Module(zl, "http"), cfg.App.UploadMaxBytes)
	if err != nil {
		zl.Fatal("failed to construct server", zap.Error(err))
	}
	srv.SecureCookies = cfg.IsProduction()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			zl.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	zl.Info("listening",
		zap.String("addr", httpSrv.Addr),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("env", cfg.App.Environment),
	)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server error", zap.Error(err))
	}
}

// buildVerifier picks the credential check. With DATABASE_URL set, accounts
// live in Postgres and the configured pair is seeded as the first account;
// otherwise the configured pair is the only accepted login.
func buildVerifier(ctx context.Context, cfg *config.Config, zl *zap.Logger) (auth.Verifier, func(), error) {
	if cfg.UsesDefaultCredentials() {
		zl.Warn("using the built-in demo account; set AUTH_USERNAME and AUTH_PASSWORD")
	}
	if strings.TrimSpace(cfg.Auth.DatabaseURL) == "" {
		return auth.NewStaticVerifier(cfg.Auth.Username, cfg.Auth.Password), func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.Auth.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = conn.Close() }
	if err := db.Migrate(ctx, conn); err != nil {
		closeDB()
		return nil, nil, err
	}
	repo := db.NewRepository(conn)

	hash, err := auth.HashPassword(cfg.Auth.Password)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	created, err := repo.EnsureUser(ctx, cfg.Auth.Username, hash)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if created {
		zl.Info("seeded bootstrap account", zap.String("username", cfg.Auth.Username))
	}
	return auth.NewHashedVerifier(repo), closeDB, nil
}
