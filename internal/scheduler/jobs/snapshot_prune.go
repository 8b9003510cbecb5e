package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/gigapp/gig/backend/pkg/logger"
)

// SnapshotPruner deletes old snapshots
type SnapshotPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// SnapshotPruneJob keeps the snapshot archive bounded
type SnapshotPruneJob struct {
	store     SnapshotPruner
	retention time.Duration
	schedule  string
	logger    *logger.Logger
	now       func() time.Time
}

// NewSnapshotPruneJob creates a new prune job
func NewSnapshotPruneJob(store SnapshotPruner, retention time.Duration, schedule string, log *logger.Logger) *SnapshotPruneJob {
	return &SnapshotPruneJob{
		store:     store,
		retention: retention,
		schedule:  schedule,
		logger:    log,
		now:       time.Now,
	}
}

// Name returns the job name
func (j *SnapshotPruneJob) Name() string {
	return "snapshot_prune"
}

// Schedule returns the cron schedule (PRUNE_SCHEDULE, weekly by default)
func (j *SnapshotPruneJob) Schedule() string {
	return j.schedule
}

// Run deletes snapshots older than the retention window
func (j *SnapshotPruneJob) Run(ctx context.Context) error {
	if j.retention <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	removed, err := j.store.Prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("snapshot prune: %w", err)
	}

	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff,
		}).Info("Old dashboard snapshots removed")
	}
	return nil
}
