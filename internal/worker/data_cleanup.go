package worker

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ignite/crm-retention/internal/pkg/logger"
)

// Run history cleanup. Every plan leaves a summary row in crm_retention_runs;
// rows older than the configured history window are deleted in batches so a
// long backlog never holds a lock on the table.

const (
	// DefaultCleanupInterval is how often the cleanup cycle runs.
	DefaultCleanupInterval = 6 * time.Hour

	// DefaultRunHistory is how long run summaries are kept.
	DefaultRunHistory = 365 * 24 * time.Hour

	// cleanupBatchSize limits each DELETE to avoid table-level locks.
	cleanupBatchSize = 5000
)

const deleteOldRuns = `
	DELETE FROM crm_retention_runs
	WHERE id IN (
		SELECT id FROM crm_retention_runs
		WHERE started_at < $1
		LIMIT $2
	)`

// DataCleanupWorker periodically removes old retention run summaries.
type DataCleanupWorker struct {
	db       *sql.DB
	interval time.Duration
	keep     time.Duration
	now      func() time.Time
	pause    time.Duration
}

// NewDataCleanupWorker creates a cleanup worker keeping keep worth of run
// history. A non-positive keep uses DefaultRunHistory.
func NewDataCleanupWorker(db *sql.DB, keep time.Duration) *DataCleanupWorker {
	if keep <= 0 {
		keep = DefaultRunHistory
	}
	return &DataCleanupWorker{
		db:       db,
		interval: DefaultCleanupInterval,
		keep:     keep,
		now:      time.Now,
		pause:    100 * time.Millisecond,
	}
}

// Start begins the cleanup loop. It blocks until ctx is cancelled.
func (dc *DataCleanupWorker) Start(ctx context.Context) {
	logger.Info("run history cleanup starting",
		"interval", dc.interval.String(), "keep", dc.keep.String(), "batch_size", cleanupBatchSize)

	// Run once immediately on start
	dc.cleanup(ctx)

	ticker := time.NewTicker(dc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("run history cleanup stopping")
			return
		case <-ticker.C:
			dc.cleanup(ctx)
		}
	}
}

func (dc *DataCleanupWorker) cleanup(ctx context.Context) int64 {
	start := time.Now()
	cutoff := dc.now().Add(-dc.keep)

	total := dc.batchDelete(ctx, cutoff)
	if total > 0 {
		logger.Info("removed old retention runs",
			"rows", total,
			"cutoff", cutoff.Format(time.RFC3339),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
	return total
}

// batchDelete deletes runs older than cutoff, cleanupBatchSize rows at a
// time, until a batch affects nothing. A missing table is logged once and
// treated as empty so the worker is safe before migrations have run.
func (dc *DataCleanupWorker) batchDelete(ctx context.Context, cutoff time.Time) int64 {
	var totalDeleted int64

	for {
		if ctx.Err() != nil {
			return totalDeleted
		}

		queryCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		res, err := dc.db.ExecContext(queryCtx, deleteOldRuns, cutoff, cleanupBatchSize)
		cancel()

		if err != nil {
			if isTableNotExistsError(err) {
				if totalDeleted == 0 {
					logger.Warn("crm_retention_runs does not exist, skipping cleanup")
				}
				return totalDeleted
			}
			logger.Error("run history cleanup failed", "error", err)
			return totalDeleted
		}

		affected, _ := res.RowsAffected()
		if affected == 0 {
			return totalDeleted
		}
		totalDeleted += affected

		if affected < cleanupBatchSize {
			return totalDeleted
		}
		time.Sleep(dc.pause)
	}
}

// isTableNotExistsError reports whether a Postgres error says the target
// relation does not exist.
func isTableNotExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")
}
