/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the HR engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment)
  2. Configure zerolog
  3. Initialize SQLite store
  4. Load the leave policy (JSON file or defaults)
  5. Wire workflow, scheduler, token resolver and API handler
  6. Start server with graceful shutdown

ENVIRONMENT:
  HR_ADDR         Listen address (default: ":8080")
  HR_DB_PATH      SQLite database path (default: "hr.db", ":memory:" allowed)
  HR_JWT_SECRET   HMAC secret for access tokens (required)
  HR_JWT_TTL      Access token lifetime (default: "24h")
  HR_POLICY_PATH  Optional leave policy JSON file
  HR_LOG_LEVEL    zerolog level (default: "info")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warp/hr-engine/api"
	"github.com/warp/hr-engine/config"
	"github.com/warp/hr-engine/identity"
	"github.com/warp/hr-engine/leave"
	"github.com/warp/hr-engine/notify"
	"github.com/warp/hr-engine/shift"
	"github.com/warp/hr-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Leave policy
	policy := leave.DefaultPolicy()
	if cfg.PolicyPath != "" {
		data, err := os.ReadFile(cfg.PolicyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.PolicyPath).Msg("failed to read policy file")
		}
		policy, err = leave.ParsePolicy(data)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.PolicyPath).Msg("failed to parse policy file")
		}
	}

	// Domain wiring
	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	resolver := identity.NewResolver(tokens, store)
	notifier := notify.NewLogSender(log.Logger)
	workflow := leave.NewWorkflow(store, store, notifier, policy, nil)
	scheduler := shift.NewScheduler(store, store, store, store)

	handler := api.NewHandler(workflow, scheduler, resolver)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
