package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/config"
	dbpkg "github.com/BruksfildServices01/trucking-desk/internal/db"
	"github.com/BruksfildServices01/trucking-desk/internal/logger"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	"github.com/BruksfildServices01/trucking-desk/internal/routes"
	"github.com/BruksfildServices01/trucking-desk/internal/server"
)

const blacklistPurgeInterval = time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}

	var (
		blacklist   auth.Blacklist
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = auth.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		blacklist = auth.NewRedisBlacklist(redisClient)
		log.Info("token blacklist backed by redis")
	} else {
		gormBlacklist := auth.NewGormBlacklist(db)
		go purgeBlacklist(ctx, gormBlacklist, log)
		blacklist = gormBlacklist
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log, cfg.AuditQueueSize)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Logger:    log,
		Blacklist: blacklist,
		Audit:     dispatcher,
	})

	srv := server.New(cfg.Addr(), r, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err = <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error("graceful shutdown failed", zap.Error(serr))
	}

	dispatcher.Close()

	if redisClient != nil {
		_ = redisClient.Close()
	}

	if sqlDB, derr := db.DB(); derr == nil {
		_ = sqlDB.Close()
	}

	log.Info("server exited")
	return err
}

// purgeBlacklist drops expired rows until ctx is cancelled. Redis expires its
// keys on its own.
func purgeBlacklist(ctx context.Context, bl *auth.GormBlacklist, log *zap.Logger) {
	ticker := time.NewTicker(blacklistPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := bl.Purge(ctx, now)
			if err != nil {
				log.Warn("blacklist purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("blacklist purged", zap.Int64("rows", n))
			}
		}
	}
}
