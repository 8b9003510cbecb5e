package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigapp/gig/backend/internal/contracts"
)

// Snapshot is a stored dashboard summary for one actor
type Snapshot struct {
	ID                     uuid.UUID                `json:"id"`
	Actor                  contracts.Actor          `json:"actor"`
	TakenAt                time.Time                `json:"takenAt"`
	Total                  int                      `json:"total"`
	TotalRevenue           float64                  `json:"totalRevenue"`
	PendingCount           int                      `json:"pendingCount"`
	UpcomingConfirmedCount int                      `json:"upcomingConfirmedCount"`
	StatusCounts           map[contracts.Status]int `json:"statusCounts"`
	MonthlyRevenue         [12]float64              `json:"monthlyRevenue"`
}

// NewSnapshot captures s for actor at takenAt
func NewSnapshot(actor contracts.Actor, s Summary, takenAt time.Time) Snapshot {
	return Snapshot{
		ID:                     uuid.New(),
		Actor:                  actor,
		TakenAt:                takenAt,
		Total:                  s.Total,
		TotalRevenue:           s.TotalRevenue,
		PendingCount:           s.PendingCount,
		UpcomingConfirmedCount: s.UpcomingConfirmedCount,
		StatusCounts:           s.StatusCounts,
		MonthlyRevenue:         s.MonthlyRevenue,
	}
}

// Repository archives dashboard snapshots in PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schema = `
	CREATE TABLE IF NOT EXISTS gig_dashboard_snapshots (
		id                       UUID PRIMARY KEY,
		actor_kind               TEXT NOT NULL,
		actor_id                 TEXT NOT NULL,
		user_id                  TEXT NOT NULL,
		taken_at                 TIMESTAMPTZ NOT NULL,
		total_contracts          INTEGER NOT NULL,
		total_revenue            DOUBLE PRECISION NOT NULL,
		pending_count            INTEGER NOT NULL,
		upcoming_confirmed_count INTEGER NOT NULL,
		status_counts            JSONB NOT NULL,
		monthly_revenue          JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS gig_dashboard_snapshots_actor_idx
		ON gig_dashboard_snapshots (actor_kind, actor_id, taken_at DESC);`

// EnsureSchema creates the snapshot table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	return nil
}

// Save stores one snapshot
func (r *Repository) Save(ctx context.Context, s Snapshot) error {
	counts, err := json.Marshal(s.StatusCounts)
	if err != nil {
		return fmt.Errorf("marshal status counts: %w", err)
	}
	monthly, err := json.Marshal(s.MonthlyRevenue)
	if err != nil {
		return fmt.Errorf("marshal monthly revenue: %w", err)
	}

	query := `
		INSERT INTO gig_dashboard_snapshots
			(id, actor_kind, actor_id, user_id, taken_at, total_contracts, total_revenue,
			 pending_count, upcoming_confirmed_count, status_counts, monthly_revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		s.ID, string(s.Actor.Kind), s.Actor.PartyID.String(), s.Actor.UserID.String(), s.TakenAt,
		s.Total, s.TotalRevenue, s.PendingCount, s.UpcomingConfirmedCount,
		counts, monthly,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListRecent returns the newest snapshots for actor, newest first
func (r *Repository) ListRecent(ctx context.Context, actor contracts.Actor, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, actor_kind, actor_id, user_id, taken_at, total_contracts, total_revenue,
		       pending_count, upcoming_confirmed_count, status_counts, monthly_revenue
		FROM gig_dashboard_snapshots
		WHERE actor_kind = $1 AND actor_id = $2
		ORDER BY taken_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(actor.Kind), actor.PartyID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0, limit)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Prune deletes snapshots taken before cutoff and returns how many went
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gig_dashboard_snapshots WHERE taken_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		s                Snapshot
		kind, id, userID string
		counts, monthly  []byte
	)
	err := row.Scan(&s.ID, &kind, &id, &userID, &s.TakenAt, &s.Total, &s.TotalRevenue,
		&s.PendingCount, &s.UpcomingConfirmedCount, &counts, &monthly)
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	s.Actor = contracts.Actor{UserID: contracts.ID(userID), Kind: contracts.Role(kind), PartyID: contracts.ID(id)}
	if err := json.Unmarshal(counts, &s.StatusCounts); err != nil {
		return Snapshot{}, fmt.Errorf("decode status counts: %w", err)
	}
	if err := json.Unmarshal(monthly, &s.MonthlyRevenue); err != nil {
		return Snapshot{}, fmt.Errorf("decode monthly revenue: %w", err)
	}
	return s, nil
}
