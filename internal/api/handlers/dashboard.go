package handlers

import (
	"context"
	"net/http"

	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// SnapshotLister reads archived dashboards
type SnapshotLister interface {
	ListRecent(ctx context.Context, actor contracts.Actor, limit int) ([]dashboard.Snapshot, error)
}

// DashboardHandler serves the dashboard, its chart series and the snapshot archive
type DashboardHandler struct {
	board     *board.Board
	snapshots SnapshotLister
	logger    *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler. snapshots may be nil.
func NewDashboardHandler(b *board.Board, snapshots SnapshotLister, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		board:     b,
		snapshots: snapshots,
		logger:    log,
	}
}

// DashboardResponse wraps the summary with its empty state
type DashboardResponse struct {
	dashboard.Summary
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
	Version      uint64 `json:"version"`
}

// Get returns the dashboard summary
// GET /api/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary := h.board.Dashboard()
	resp := DashboardResponse{
		Summary: summary,
		Empty:   summary.Empty(),
		Version: h.board.Version(),
	}
	if resp.Empty {
		resp.EmptyMessage = contracts.EmptyStateMessage(contracts.TabAll)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Chart returns the revenue and status series, null when there is nothing to chart
// GET /api/dashboard/chart
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.board.Dashboard().Chart())
}

// Snapshots lists archived dashboards, newest first
// GET /api/dashboard/snapshots?limit=30
func (h *DashboardHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		respondError(w, http.StatusServiceUnavailable, "Snapshot archive is not configured")
		return
	}

	limit := queryInt(r, "limit", 30, 365)
	snapshots, err := h.snapshots.ListRecent(r.Context(), h.board.Actor(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list snapshots")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve snapshots")
		return
	}
	respondJSON(w, http.StatusOK, snapshots)
}
