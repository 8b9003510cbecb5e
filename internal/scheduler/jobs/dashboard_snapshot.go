package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// SummarySource provides the current dashboard of an actor
type SummarySource interface {
	Actor() contracts.Actor
	Version() uint64
	Dashboard() dashboard.Summary
}

// SnapshotStore persists dashboard snapshots
type SnapshotStore interface {
	Save(ctx context.Context, s dashboard.Snapshot) error
}

// DashboardSnapshotJob archives the dashboard once per schedule
type DashboardSnapshotJob struct {
	board    SummarySource
	store    SnapshotStore
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewDashboardSnapshotJob creates a new snapshot job
func NewDashboardSnapshotJob(board SummarySource, store SnapshotStore, schedule string, log *logger.Logger) *DashboardSnapshotJob {
	return &DashboardSnapshotJob{
		board:    board,
		store:    store,
		schedule: schedule,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *DashboardSnapshotJob) Name() string {
	return "dashboard_snapshot"
}

// Schedule returns the cron schedule (SNAPSHOT_SCHEDULE, daily at 3 AM by default)
func (j *DashboardSnapshotJob) Schedule() string {
	return j.schedule
}

// Run stores the current summary. A board that never loaded is an error,
// so an empty snapshot is not mistaken for "no contracts".
func (j *DashboardSnapshotJob) Run(ctx context.Context) error {
	if j.board.Version() == 0 {
		return errors.New("dashboard snapshot: contracts not loaded yet")
	}

	snap := dashboard.NewSnapshot(j.board.Actor(), j.board.Dashboard(), j.now().UTC())
	if err := j.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("dashboard snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"snapshot_id":   snap.ID,
		"total":         snap.Total,
		"total_revenue": snap.TotalRevenue,
	}).Info("Dashboard snapshot stored")
	return nil
}
