package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/card"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/external/gig"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// ContractsHandler serves the contract list, cards and card actions
// ⭐ SSOT: contract HTTP endpoints are handled here only
type ContractsHandler struct {
	board  *board.Board
	logger *logger.Logger
}

// NewContractsHandler creates a new contracts handler
func NewContractsHandler(b *board.Board, log *logger.Logger) *ContractsHandler {
	return &ContractsHandler{
		board:  b,
		logger: log,
	}
}

// ListResponse is one tab of the contracts screen
type ListResponse struct {
	Tab            contracts.Tab `json:"tab"`
	Label          string        `json:"label"`
	ShowsDashboard bool          `json:"showsDashboard"`
	Version        uint64        `json:"version"`
	Cards          []card.View   `json:"cards"`
	EmptyMessage   string        `json:"emptyMessage,omitempty"`
}

// List returns the cards of a tab
// GET /api/contracts?tab=pending
func (h *ContractsHandler) List(w http.ResponseWriter, r *http.Request) {
	tab, err := contracts.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cards := h.board.Cards(tab)
	resp := ListResponse{
		Tab:            tab,
		Label:          tab.Label(),
		ShowsDashboard: tab.ShowsDashboard(),
		Version:        h.board.Version(),
		Cards:          make([]card.View, 0, len(cards)),
	}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, c.Render())
	}
	if len(resp.Cards) == 0 {
		resp.EmptyMessage = contracts.EmptyStateMessage(tab)
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get returns a single card
// GET /api/contracts/{id}
func (h *ContractsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.board.Card(contracts.ID(mux.Vars(r)["id"]))
	if !ok {
		respondError(w, http.StatusNotFound, "Contract not found")
		return
	}
	respondJSON(w, http.StatusOK, c.Render())
}

// ActionResponse reports the outcome of a card action
type ActionResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Card    card.View        `json:"card"`
	Action  contracts.Action `json:"action"`
}

// Act presses accept, decline or cancel on a card
// POST /api/contracts/{id}/{action}
func (h *ContractsHandler) Act(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	action, err := contracts.ParseAction(vars["action"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, ok := h.board.Card(contracts.ID(vars["id"]))
	if !ok {
		respondError(w, http.StatusNotFound, "Contract not found")
		return
	}

	if err := c.Press(r.Context(), action); err != nil {
		switch {
		case errors.Is(err, card.ErrBusy):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, card.ErrActionUnavailable):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			status := http.StatusBadGateway
			var apiErr *gig.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
				status = apiErr.StatusCode
			}
			respondError(w, status, card.ErrorMessage(err))
		}
		return
	}

	respondJSON(w, http.StatusOK, ActionResponse{
		Status:  "ok",
		Message: "Contract updated. Refreshing.",
		Card:    c.Render(),
		Action:  action,
	})
}

// Refresh refetches the collection now
// POST /api/contracts/refresh
func (h *ContractsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Refresh(r.Context()); err != nil {
		h.logger.WithError(err).Warn("Manual refresh failed")
		respondError(w, http.StatusBadGateway, card.ErrorMessage(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version": h.board.Version(),
	})
}

// Me returns the acting party
// GET /api/me
func (h *ContractsHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.board.Actor())
}
