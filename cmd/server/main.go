// Command server runs the conversational support API: the tenant console,
// the customer chat widget, and the realtime websocket fan-out.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/StevenSmith-code/corinna-ai/internal/config"
	httpapi "github.com/StevenSmith-code/corinna-ai/internal/http"
	"github.com/StevenSmith-code/corinna-ai/internal/mailer"
	"github.com/StevenSmith-code/corinna-ai/internal/observability"
	"github.com/StevenSmith-code/corinna-ai/internal/repo"
	"github.com/StevenSmith-code/corinna-ai/internal/sysutil"
	"github.com/StevenSmith-code/corinna-ai/internal/ws"
)

const version = "1.0.0"

func main() {
	// Local overrides; missing .env is fine in containers.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Tracing
	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Realtime hub
	hub := ws.NewHub()
	hubStop := make(chan struct{})
	go hub.Run(hubStop)

	// Outbound mail (log delivery; swap for a real provider in production)
	mail := &mailer.LogMailer{Log: log.Logger}

	// HTTP
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, hub, mail, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("base_path", cfg.APIBasePath).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	close(hubStop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
