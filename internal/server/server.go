// Package server boots the infrastructure and runs the HTTP server until the
// process is told to stop.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

const shutdownTimeout = 15 * time.Second

// Start serves on APP_PORT and shuts down gracefully on SIGINT/SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	closeLogs, err := logger.Setup()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer closeLogs()

	if err := database.Connect(); err != nil {
		return err
	}

	pool := workerpool.New(config.WorkerPoolSize())
	defer pool.Shutdown()

	store := cache.Connect(ctx)
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close()
	}

	k := kernel.New(kernel.Deps{
		DB:              database.DB,
		Cache:           store,
		Disk:            storage.Connect(ctx),
		Pool:            pool,
		AppKey:          appKey(),
		SessionCookie:   config.SessionCookie(),
		SessionTTL:      config.SessionTTL(),
		SecureCookies:   config.AppEnv() == "production",
		MaxPerItem:      config.MaxQuantityPerItem(),
		UploadPath:      config.ProductUploadPath(),
		CatalogCacheTTL: config.CatalogCacheTTL(),
		LoginRateLimit:  config.LoginRateLimit(),
	})
	defer k.Close()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("storefront shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return <-errCh
}

// appKey returns APP_KEY, or a per-process random key (sessions then do not
// survive a restart).
func appKey() string {
	if key := config.AppKey(); key != "" {
		return key
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("server: entropy: %v", err))
	}
	logger.Warn("APP_KEY is not set; using a random key for this process")
	return hex.EncodeToString(b)
}
