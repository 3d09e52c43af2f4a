package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

// Reconciler is the job the scheduler drives.
type Reconciler interface {
	Run(ctx context.Context)
}

// InitCronJobs registers the reconciliation scan and starts the scheduler.
func InitCronJobs(ctx context.Context, c *cron.Cron, schedule string, reconciler Reconciler, log logger.Logger) error {
	_, err := c.AddFunc(schedule, func() {
		log.Info("running reconciliation scan")
		reconciler.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info("cron jobs initialized, reconciliation on %q", schedule)
	return nil
}
