package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/pkg/logger"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	dir := "migrations"
	listOnly := false
	for _, a := range os.Args[1:] {
		if a == "--list" {
			listOnly = true
		} else {
			dir = a
		}
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("ping failed", "error", err)
		os.Exit(1)
	}

	if listOnly {
		if err := listTables(ctx, db); err != nil {
			logger.Error("list tables failed", "error", err)
			os.Exit(1)
		}
		return
	}

	files, err := migrationFiles(dir)
	if err != nil {
		logger.Error("read migrations failed", "dir", dir, "error", err)
		os.Exit(1)
	}

	var applied, failed int
	for _, path := range files {
		if err := apply(ctx, db, path); err != nil {
			logger.Error("migration failed", "file", filepath.Base(path), "error", err)
			failed++
			continue
		}
		logger.Info("migration applied", "file", filepath.Base(path))
		applied++
	}
	logger.Info("migrations complete", "applied", applied, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// migrationFiles returns the .sql files in dir in lexical order.
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// apply runs one file in its own transaction. Empty files are skipped.
func apply(ctx context.Context, db *sql.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(data)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func listTables(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		`SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename LIKE 'crm_%' ORDER BY tablename`)
	if err != nil {
		return err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return err
		}
		fmt.Println(" ", t)
		n++
	}
	fmt.Printf("Total: %d tables\n", n)
	return rows.Err()
}
