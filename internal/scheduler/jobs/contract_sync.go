package jobs

import (
	"context"
	"fmt"

	"github.com/gigapp/gig/backend/pkg/logger"
)

// Refresher reloads the contract collection
type Refresher interface {
	Refresh(ctx context.Context) error
	Version() uint64
}

// ContractSyncJob refetches contracts so changes made elsewhere show up
// ⭐ SSOT: periodic contract refetch is scheduled by this job only
type ContractSyncJob struct {
	board    Refresher
	schedule string
	logger   *logger.Logger
}

// NewContractSyncJob creates a new contract sync job
func NewContractSyncJob(board Refresher, schedule string, log *logger.Logger) *ContractSyncJob {
	return &ContractSyncJob{
		board:    board,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ContractSyncJob) Name() string {
	return "contract_sync"
}

// Schedule returns the cron schedule (SYNC_SCHEDULE, every 5 minutes by default)
func (j *ContractSyncJob) Schedule() string {
	return j.schedule
}

// Run refreshes the board
func (j *ContractSyncJob) Run(ctx context.Context) error {
	if err := j.board.Refresh(ctx); err != nil {
		return fmt.Errorf("contract sync: %w", err)
	}

	j.logger.WithField("version", j.board.Version()).Debug("Contract sync completed")
	return nil
}
