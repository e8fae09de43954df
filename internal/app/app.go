// Package app wires configuration into the stores and services shared by the
// server and the command-line tools.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/pkg/distlock"
	"github.com/ignite/crm-retention/internal/pkg/logger"
	"github.com/ignite/crm-retention/internal/protected"
	"github.com/ignite/crm-retention/internal/repository/postgres"
	"github.com/ignite/crm-retention/internal/service/records"
	"github.com/ignite/crm-retention/internal/service/retention"
	"github.com/ignite/crm-retention/internal/storage"
)

// App holds the opened connections and the services built on them.
type App struct {
	DB        *sql.DB
	Redis     *redis.Client
	CRM       *postgres.CRMRepo
	Source    protected.Source
	Protected *protected.Reloader
	Retention *retention.Service
	Records   *records.Service
}

// ConfigureLogging applies the log section of cfg to the default logger.
func ConfigureLogging(cfg config.LogConfig) {
	logger.SetLevel(logger.ParseLevel(cfg.Level))
	logger.SetRedactPII(cfg.Redact())
}

// Open connects to PostgreSQL and, when configured, Redis, then builds the
// retention service. The protected list is loaded once before returning.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.Database.ConnLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database")

	a := &App{DB: db, CRM: postgres.NewCRMRepo(db)}
	a.Records = records.NewService(a.CRM)

	var store protected.Store = protected.NewMemoryStore()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		if err := a.Redis.Ping(pingCtx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		store = protected.NewRedisStore(a.Redis, cfg.Redis.KeyPrefix)
		logger.Info("connected to redis", "key_prefix", cfg.Redis.KeyPrefix)
	} else {
		logger.Info("redis not configured, using in-process protected list and advisory locks")
	}

	source, err := protected.NewSource(ctx, cfg.Protected)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("protected source: %w", err)
	}
	a.Source = source
	a.Protected = protected.NewReloader(source, store)
	if _, err := a.Protected.Reload(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load protected list: %w", err)
	}

	archive, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("plan archive: %w", err)
	}

	var runs retention.RunStore = postgres.NewRunRepo(db)
	if aws, ok := archive.(*storage.AWSStorage); ok && aws.RecordsRuns() {
		runs = aws
		logger.Info("recording retention runs in dynamodb", "table", cfg.Storage.DynamoDBTable)
	}

	opts := []retention.Option{
		retention.WithRunStore(runs),
		retention.WithLocks(distlock.NewFactory(a.Redis, db, cfg.Retention.LockTTL())),
	}
	if archive != nil {
		opts = append(opts, retention.WithArchive(archive))
		logger.Info("archiving retention plans", "type", cfg.Storage.Type)
	}
	a.Retention = retention.NewService(a.CRM, a.Protected, opts...)
	return a, nil
}

// Close releases the connections.
func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
