package handlers

import (
	"net/http"

	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/calendar"
	"github.com/gigapp/gig/backend/internal/card"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// CalendarHandler serves calendar markers and the day agenda
type CalendarHandler struct {
	board  *board.Board
	logger *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(b *board.Board, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		board:  b,
		logger: log,
	}
}

// Marks returns the marked dates keyed by YYYY-MM-DD
// GET /api/calendar/marks
func (h *CalendarHandler) Marks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.board.Marked())
}

// AgendaResponse lists the confirmed contracts of one day
type AgendaResponse struct {
	Date         string      `json:"date"`
	Cards        []card.View `json:"cards"`
	EmptyMessage string      `json:"emptyMessage,omitempty"`
}

// Agenda returns the confirmed contracts on a date
// GET /api/calendar/agenda?date=2025-06-01
func (h *CalendarHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if _, ok := contracts.ParseDay(raw); !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'date' (expected YYYY-MM-DD)")
		return
	}
	date := calendar.NormalizeDate(raw)

	agenda := h.board.Agenda(date)
	resp := AgendaResponse{
		Date:  date,
		Cards: make([]card.View, 0, len(agenda)),
	}
	for _, c := range agenda {
		if cd, ok := h.board.Card(c.ID); ok {
			resp.Cards = append(resp.Cards, cd.Render())
		}
	}
	if len(resp.Cards) == 0 {
		resp.EmptyMessage = "No confirmed contracts on " + date + "."
	}
	respondJSON(w, http.StatusOK, resp)
}
