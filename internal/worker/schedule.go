package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/ignite/crm-retention/internal/pkg/logger"
)

// StartScheduled runs the scan on a cron schedule ("0 3 * * *", "@daily")
// instead of a fixed interval. It blocks until ctx is cancelled and waits for
// a running scan to finish. Overlapping firings are skipped.
func (w *RetentionScanWorker) StartScheduled(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { w.scan(ctx) }); err != nil {
		return fmt.Errorf("invalid scan schedule %q: %w", schedule, err)
	}

	logger.Info("retention scan scheduled", "schedule", schedule, "action", w.action)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("retention scan stopping")
	return nil
}
