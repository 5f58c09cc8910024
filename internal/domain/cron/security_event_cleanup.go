package cron

import (
	"context"
	"time"

	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/xcontext"
)

// SecurityEventCleanupCronJob prunes flagged events past the retention window
// once a day.
type SecurityEventCleanupCronJob struct {
	securityEventRepo repository.SecurityEventRepository
}

func NewSecurityEventCleanupCronJob(
	securityEventRepo repository.SecurityEventRepository,
) *SecurityEventCleanupCronJob {
	return &SecurityEventCleanupCronJob{securityEventRepo: securityEventRepo}
}

func (job *SecurityEventCleanupCronJob) Do(ctx context.Context) {
	retention := xcontext.Configs(ctx).SecurityEvents.Retention
	deadline := time.Now().Add(-retention)

	n, err := job.securityEventRepo.DeleteOlderThan(ctx, deadline)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clean up security events: %v", err)
		return
	}

	if n > 0 {
		xcontext.Logger(ctx).Infof("Cleaned up %d security events", n)
	}
}

func (job *SecurityEventCleanupCronJob) RunNow() bool {
	return false
}

func (job *SecurityEventCleanupCronJob) Next() time.Time {
	return time.Now().Add(24 * time.Hour)
}
