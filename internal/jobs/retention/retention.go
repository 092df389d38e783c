package retention

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job purges rows that discovery and quota accounting no longer consult:
// spent daily_quotas rows and skips past the rotation window.
type Job struct {
	skips       skipPurger
	quotas      quotaPurger
	skipWindow  time.Duration
	quotaWindow time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

type skipPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type quotaPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func New(skips skipPurger, quotas quotaPurger, skipWindow time.Duration, logger *zap.Logger) *Job {
	if skipWindow <= 0 {
		skipWindow = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		skips:       skips,
		quotas:      quotas,
		skipWindow:  skipWindow,
		quotaWindow: 7 * 24 * time.Hour,
		now:         time.Now,
		logger:      logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	now := j.now().UTC()

	if j.skips != nil {
		purged, err := j.skips.DeleteOlderThan(ctx, now.Add(-j.skipWindow))
		if err != nil {
			return fmt.Errorf("purge skips: %w", err)
		}
		if purged > 0 {
			j.logger.Info("skip retention pass completed", zap.Int64("purged", purged))
		}
	}

	if j.quotas != nil {
		purged, err := j.quotas.DeleteOlderThan(ctx, now.Add(-j.quotaWindow))
		if err != nil {
			return fmt.Errorf("purge quotas: %w", err)
		}
		if purged > 0 {
			j.logger.Info("quota retention pass completed", zap.Int64("purged", purged))
		}
	}

	return nil
}

// RunEvery runs one pass immediately, then repeats on the interval until
// the context is cancelled.
func (j *Job) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := j.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				return err
			}
		}
	}
}
