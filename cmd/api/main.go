package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuecatalog/backend/internal/auth"
	"venuecatalog/backend/internal/catalog"
	"venuecatalog/backend/internal/config"
	"venuecatalog/backend/internal/db"
	"venuecatalog/backend/internal/http/handlers"
	"venuecatalog/backend/internal/logging"
	"venuecatalog/backend/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Logging, "api")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer func() {
		_ = cleanup()
	}()
	slog.SetDefault(logger)

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var store catalog.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("store_driver", "driver", cfg.StoreDriver, "status", "data_not_persisted")
		store = catalog.NewMemoryStore()
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db error", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("migrate error", "error", err)
			os.Exit(1)
		}
		store = repository.New(pool)
	}

	creds, err := auth.LoadCredentials(cfg.Auth.UsersFile)
	if err != nil {
		logger.Error("credentials error", "error", err)
		os.Exit(1)
	}
	if creds.Len() == 0 {
		logger.Warn("auth_users", "status", "empty", "file", cfg.Auth.UsersFile)
	}
	sessions := auth.NewMemorySessionStore()
	go auth.RunJanitor(ctx, sessions, cfg.Auth.SessionCleanupInterval, logger)
	manager := auth.NewManager(creds, sessions, cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)

	svc := catalog.New(store, logger, cfg.MaxBulkLines)
	h := handlers.New(svc, manager, cfg, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown", "service", "api")
	stopBackground()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
}
