package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/pkg/logger"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// DefaultScanInterval is how often the retention scan runs.
const DefaultScanInterval = 24 * time.Hour

// Planner computes retention plans.
type Planner interface {
	Plan(ctx context.Context, req retention.PlanRequest) (*retention.Plan, error)
}

// Reloader refreshes the protected-email list.
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

// RetentionScanWorker periodically refreshes the protected list and computes
// a retention plan, so the number of contacts due for cleanup shows up in
// the logs and the run history without anyone asking for it.
type RetentionScanWorker struct {
	planner  Planner
	reloader Reloader
	action   domain.GDPRAction
	interval time.Duration

	// onPlan, when set, receives every computed plan.
	onPlan func(*retention.Plan)
}

// NewRetentionScanWorker creates a scan worker. reloader may be nil.
func NewRetentionScanWorker(planner Planner, reloader Reloader, action domain.GDPRAction, interval time.Duration) *RetentionScanWorker {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &RetentionScanWorker{
		planner:  planner,
		reloader: reloader,
		action:   action,
		interval: interval,
	}
}

// Start runs the scan loop. It blocks until ctx is cancelled.
func (w *RetentionScanWorker) Start(ctx context.Context) {
	logger.Info("retention scan starting", "interval", w.interval.String(), "action", w.action)

	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("retention scan stopping")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *RetentionScanWorker) scan(ctx context.Context) {
	start := time.Now()

	if w.reloader != nil {
		if _, err := w.reloader.Reload(ctx); err != nil {
			// keep going with the list already in effect
			logger.Warn("protected list reload failed", "error", err)
		}
	}

	plan, err := w.planner.Plan(ctx, retention.PlanRequest{Action: w.action})
	switch {
	case errors.Is(err, retention.ErrRunInProgress):
		logger.Info("retention scan skipped, another pass is running")
		return
	case err != nil:
		if ctx.Err() == nil {
			logger.Error("retention scan failed", "error", err)
		}
		return
	}

	logger.Info("retention scan completed",
		"run_id", plan.RunID,
		"action", plan.Action,
		"evaluated", plan.Evaluated,
		"candidates", len(plan.Candidates),
		"protected", plan.Protected,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	if w.onPlan != nil {
		w.onPlan(plan)
	}
}
