package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callvista/internal/auth"
	"callvista/internal/config"
	"callvista/internal/dashboard"
	"callvista/internal/store"
	"callvista/internal/tenants"
	"callvista/pkg/logger"
	"callvista/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local convenience; env vars set by the runner win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	registry, err := buildRegistry(cfg.Tenants)
	if err != nil {
		log.Error("tenants init failed", "err", err)
		os.Exit(1)
	}
	log.Info("tenants loaded", "count", len(registry.IDs()), "default", registry.Default().ID)

	pools := store.NewPools()
	defer pools.Close()
	repo := store.NewRepository(pools, registry, log)

	var cache *dashboard.Cache
	if cfg.CacheEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		cache = dashboard.NewCache(rdb, cfg.Redis.CacheTTL, log)
	} else {
		log.Warn("report cache disabled (no REDIS_HOST)")
	}

	svc := dashboard.NewService(repo, registry, cache, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, authManager, svc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// buildRegistry overlays the optional tenants file on the built-in set.
func buildRegistry(tc config.TenantsConfig) (*tenants.Registry, error) {
	cfgs := tenants.BuiltIn()
	if tc.File != "" {
		extra, err := tenants.LoadFile(tc.File)
		if err != nil {
			return nil, err
		}
		cfgs = tenants.Merge(cfgs, extra)
	}
	defaultID := tc.DefaultID
	if defaultID == "" {
		defaultID = tenants.DefaultTenantID
	}
	return tenants.NewRegistry(defaultID, cfgs)
}
