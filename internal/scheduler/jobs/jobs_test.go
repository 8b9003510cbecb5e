package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/pkg/logger"
)

type fakeBoard struct {
	version uint64
	err     error
	calls   int
}

func (b *fakeBoard) Refresh(ctx context.Context) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	b.version++
	return nil
}

func (b *fakeBoard) Version() uint64 { return b.version }

func (b *fakeBoard) Actor() contracts.Actor { return contracts.VenueActor("u", "v1") }

func (b *fakeBoard) Dashboard() dashboard.Summary {
	return dashboard.Aggregate([]contracts.Contract{
		{ID: "1", Status: contracts.StatusConfirmed, EventDate: "2025-05-01", Budget: contracts.NewBudget(250)},
	}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
}

type fakeStore struct {
	saved  []dashboard.Snapshot
	cutoff time.Time
	err    error
}

func (s *fakeStore) Save(ctx context.Context, snap dashboard.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snap)
	return nil
}

func (s *fakeStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return 3, s.err
}

func TestContractSyncJob(t *testing.T) {
	board := &fakeBoard{}
	job := NewContractSyncJob(board, "0 */5 * * * *", logger.Nop())

	assert.Equal(t, "contract_sync", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, uint64(1), board.Version())

	board.err = errors.New("unreachable")
	assert.ErrorIs(t, job.Run(context.Background()), board.err)
}

func TestDashboardSnapshotJob(t *testing.T) {
	board := &fakeBoard{}
	store := &fakeStore{}
	job := NewDashboardSnapshotJob(board, store, "@daily", logger.Nop())
	job.now = func() time.Time { return time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC) }

	assert.Equal(t, "dashboard_snapshot", job.Name())
	assert.Error(t, job.Run(context.Background()), "refuses to snapshot an unloaded board")
	assert.Empty(t, store.saved)

	board.version = 4
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, store.saved, 1)
	snap := store.saved[0]
	assert.Equal(t, contracts.VenueActor("u", "v1"), snap.Actor)
	assert.Equal(t, 250.0, snap.TotalRevenue)
	assert.Equal(t, 250.0, snap.MonthlyRevenue[time.May-1])
	assert.Equal(t, job.now(), snap.TakenAt)
}

func TestSnapshotPruneJob(t *testing.T) {
	store := &fakeStore{}
	job := NewSnapshotPruneJob(store, 48*time.Hour, "@weekly", logger.Nop())
	at := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return at }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, at.Add(-48*time.Hour), store.cutoff)

	disabled := NewSnapshotPruneJob(store, 0, "@weekly", logger.Nop())
	store.cutoff = time.Time{}
	require.NoError(t, disabled.Run(context.Background()))
	assert.True(t, store.cutoff.IsZero())
}
