package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/blog-backend/internal/api"
	"github.com/baharkarakas/blog-backend/internal/auth"
	"github.com/baharkarakas/blog-backend/internal/config"
	"github.com/baharkarakas/blog-backend/internal/db"
	"github.com/baharkarakas/blog-backend/internal/logger"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/repository/postgres"
	"github.com/baharkarakas/blog-backend/internal/repository/sqlite"
	"github.com/baharkarakas/blog-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store", "driver", cfg.DatabaseDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	tokens := auth.NewTokenManager(cfg.JWTAccess, cfg.JWTRefresh, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		Log:        log,
		Tokens:     tokens,
		UserSvc:    services.NewUserService(repos, tokens, auth.NewHasher(cfg.BcryptCost), cfg.IsAdminUsername, log),
		PostSvc:    services.NewPostService(repos, log),
		CommentSvc: services.NewCommentService(repos, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// openStore connects the configured driver, applies migrations when enabled
// and returns the repositories with their release function.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.Repositories, func(), error) {
	switch cfg.DatabaseDriver {
	case db.DriverPostgres:
		if cfg.Migrate {
			if err := db.MigratePostgres(ctx, cfg.DatabaseURL, log); err != nil {
				return repo.Repositories{}, nil, err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return repo.Repositories{}, nil, err
		}
		return postgres.NewRepositories(pool), pool.Close, nil

	case db.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return repo.Repositories{}, nil, err
		}
		if cfg.Migrate {
			if err := db.Migrate(ctx, conn, db.DriverSQLite, log); err != nil {
				conn.Close()
				return repo.Repositories{}, nil, err
			}
		}
		return sqlite.NewRepositories(conn, nil), func() { _ = conn.Close() }, nil

	default:
		return repo.Repositories{}, nil, fmt.Errorf("unsupported driver %q", cfg.DatabaseDriver)
	}
}
