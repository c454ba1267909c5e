package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"audit-service/internal/repository"
)

// OverdueJob periodically refreshes the cached overdue flag on corrective
// actions so list filters stay in sync with each action's due date.
type OverdueJob struct {
	repo     repository.AuditRepositoryInterface
	logger   *logrus.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewOverdueJob creates a new overdue refresh job
func NewOverdueJob(repo repository.AuditRepositoryInterface, logger *logrus.Logger) *OverdueJob {
	return &OverdueJob{
		repo:     repo,
		logger:   logger,
		interval: 15 * time.Minute,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the overdue refresh job
func (j *OverdueJob) Start(ctx context.Context) {
	j.logger.Info("Overdue refresh job started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Run immediately on start
	j.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			j.refresh(ctx)
		case <-j.stopCh:
			j.logger.Info("Overdue refresh job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Overdue refresh job context cancelled")
			return
		}
	}
}

// Stop signals the job to stop
func (j *OverdueJob) Stop() {
	close(j.stopCh)
}

func (j *OverdueJob) refresh(ctx context.Context) {
	j.logger.Debug("Refreshing overdue action flags...")

	flagged, cleared, err := j.repo.RefreshOverdueFlags(ctx, time.Now())
	if err != nil {
		j.logger.Errorf("Failed to refresh overdue flags: %v", err)
		return
	}

	if flagged > 0 || cleared > 0 {
		j.logger.Infof("Overdue refresh flagged %d and cleared %d corrective actions", flagged, cleared)
	}
}
