package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/crm-retention/internal/api"
	"github.com/ignite/crm-retention/internal/app"
	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/pkg/logger"
	"github.com/ignite/crm-retention/internal/protected"
	"github.com/ignite/crm-retention/internal/worker"
)

// checkPortAvailable fails fast when something else already listens on the
// target port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %w", port, addr, err)
	}
	return ln.Close()
}

func main() {
	cfgPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadFromEnv(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	app.ConfigureLogging(cfg.Log)
	logger.Info("crm retention server starting", "config", cfgPath)

	host, port := cfg.Server.GetHost(), cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		logger.Error("pre-flight check failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.Retention.ScanEnabled {
		scan := worker.NewRetentionScanWorker(a.Retention, a.Protected,
			domain.GDPRAction(cfg.Retention.ScanAction), cfg.Retention.ScanInterval())
		if cfg.Retention.ScanSchedule != "" {
			go func() {
				if err := scan.StartScheduled(ctx, cfg.Retention.ScanSchedule); err != nil {
					logger.Error("retention scan not started", "error", err)
				}
			}()
		} else {
			go scan.Start(ctx)
		}
	}
	go worker.NewDataCleanupWorker(a.DB, cfg.Retention.RunHistory()).Start(ctx)

	if file, ok := a.Source.(protected.FileSource); ok && cfg.Protected.Watch {
		watcher := protected.NewFileWatcher(file.Path, a.Protected.Reload, 0)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("protected list watcher stopped", "error", err)
			}
		}()
	}

	health := api.NewHealthChecker(a.DB, a.Redis, a.Protected)
	handlers := api.NewHandlers(a.Retention, a.Protected, a.CRM, a.Records, health)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           api.SetupRoutes(handlers, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			cancel()
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	select {
	case <-done:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
