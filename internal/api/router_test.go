package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigapp/gig/backend/internal/api/handlers"
	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/internal/external/gig"
	"github.com/gigapp/gig/backend/pkg/logger"
)

var today = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.Local)

type staticSource struct {
	collection []contracts.Contract
}

func (s *staticSource) ContractsFor(ctx context.Context, actor contracts.Actor) ([]contracts.Contract, error) {
	return s.collection, nil
}

type fakeMutator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *fakeMutator) Respond(ctx context.Context, id contracts.ID, accepted bool) (contracts.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return contracts.Contract{ID: id}, m.err
}

func (m *fakeMutator) Cancel(ctx context.Context, id contracts.ID) (contracts.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return contracts.Contract{ID: id}, m.err
}

type fakeSnapshots struct{}

func (fakeSnapshots) ListRecent(ctx context.Context, actor contracts.Actor, limit int) ([]dashboard.Snapshot, error) {
	return []dashboard.Snapshot{{Actor: actor, Total: limit}}, nil
}

func fixture() []contracts.Contract {
	return []contracts.Contract{
		{ID: "1", EventName: "Jazz Night", Status: contracts.StatusPending, EventDate: "2025-07-01", Budget: contracts.NewBudget(500)},
		{ID: "2", EventName: "Rock Fest", Status: contracts.StatusConfirmed, EventDate: "2025-06-20T20:00:00Z", Budget: contracts.NewBudget(1200)},
		{ID: "3", EventName: "Old Show", Status: contracts.StatusDeclined, EventDate: "2025-05-01"},
	}
}

func newTestRouter(t *testing.T, actor contracts.Actor, collection []contracts.Contract, mutator *fakeMutator, snapshots handlers.SnapshotLister) http.Handler {
	t.Helper()

	log := logger.Nop()
	b := board.New(actor, &staticSource{collection: collection}, mutator, log,
		board.WithClock(func() time.Time { return today }))
	require.NoError(t, b.Refresh(context.Background()))

	return NewRouter(Handlers{
		Contracts: handlers.NewContractsHandler(b, log),
		Dashboard: handlers.NewDashboardHandler(b, snapshots, log),
		Calendar:  handlers.NewCalendarHandler(b, log),
	}, log)
}

func do(t *testing.T, h http.Handler, method, target string, out interface{}) int {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, contracts.BandActor("u", "b"), nil, &fakeMutator{}, nil)

	var body map[string]string
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestContractsList(t *testing.T) {
	h := newTestRouter(t, contracts.BandActor("u", "b"), fixture(), &fakeMutator{}, nil)

	var all handlers.ListResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/contracts", &all))
	assert.Equal(t, contracts.TabAll, all.Tab)
	assert.True(t, all.ShowsDashboard)
	assert.Len(t, all.Cards, 3)

	var pending handlers.ListResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/contracts?tab=Pending", &pending))
	require.Len(t, pending.Cards, 1)
	assert.Equal(t, "Jazz Night", pending.Cards[0].Title)
	assert.Equal(t, []contracts.Action{contracts.ActionAccept, contracts.ActionDecline}, pending.Cards[0].Actions)

	var canceled handlers.ListResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/contracts?tab=canceled", &canceled))
	assert.Empty(t, canceled.Cards)
	assert.Equal(t, "You have no canceled contracts.", canceled.EmptyMessage)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/contracts?tab=archived", nil))
}

func TestContractsAct(t *testing.T) {
	mutator := &fakeMutator{}
	h := newTestRouter(t, contracts.BandActor("u", "b"), fixture(), mutator, nil)

	var resp handlers.ActionResponse
	assert.Equal(t, http.StatusOK, do(t, h, "POST", "/api/contracts/1/accept", &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, contracts.StatusPending, resp.Card.Status, "status changes only after refetch")

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, "POST", "/api/contracts/2/accept", nil))
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/api/contracts/99/accept", nil))
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/api/contracts/1/archive", nil))

	assert.Equal(t, 1, mutator.calls)
}

func TestContractsActBackendError(t *testing.T) {
	mutator := &fakeMutator{err: &gig.APIError{StatusCode: http.StatusBadRequest, Message: "Contract already answered"}}
	h := newTestRouter(t, contracts.BandActor("u", "b"), fixture(), mutator, nil)

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/api/contracts/1/decline", &body))
	assert.Equal(t, "Contract already answered", body["error"])

	mutator.err = errors.New("connection reset")
	assert.Equal(t, http.StatusBadGateway, do(t, h, "POST", "/api/contracts/1/decline", &body))
	assert.Equal(t, "Something went wrong. Please try again.", body["error"])
}

func TestContractsCancelDeadline(t *testing.T) {
	collection := []contracts.Contract{
		{ID: "far", Status: contracts.StatusConfirmed, EventDate: "2025-06-30"},
		{ID: "near", Status: contracts.StatusConfirmed, EventDate: "2025-06-05"},
	}
	mutator := &fakeMutator{}
	h := newTestRouter(t, contracts.VenueActor("u", "v"), collection, mutator, nil)

	var near map[string]interface{}
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/contracts/near", &near))
	assert.Equal(t, true, near["cancelLocked"])

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, "POST", "/api/contracts/near/cancel", nil))
	assert.Equal(t, http.StatusOK, do(t, h, "POST", "/api/contracts/far/cancel", nil))
	assert.Equal(t, 1, mutator.calls)
}

func TestDashboard(t *testing.T) {
	h := newTestRouter(t, contracts.BandActor("u", "b"), fixture(), &fakeMutator{}, nil)

	var resp handlers.DashboardResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/dashboard", &resp))
	assert.False(t, resp.Empty)
	assert.Equal(t, 1200.0, resp.TotalRevenue)
	assert.Equal(t, 1, resp.PendingCount)
	assert.Equal(t, 1, resp.UpcomingConfirmedCount)
	assert.Equal(t, 1, resp.StatusCounts[contracts.StatusDeclined])
	require.Len(t, resp.NextUpcoming, 1)

	var chart dashboard.Chart
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/dashboard/chart", &chart))
	assert.Len(t, chart.Revenue, 12)
	assert.Equal(t, 1200.0, chart.Revenue[time.June-1].Value)
}

func TestDashboardEmpty(t *testing.T) {
	h := newTestRouter(t, contracts.BandActor("u", "b"), nil, &fakeMutator{}, nil)

	var resp handlers.DashboardResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/dashboard", &resp))
	assert.True(t, resp.Empty)
	assert.Equal(t, "You have no contracts yet.", resp.EmptyMessage)

	var chart *dashboard.Chart
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/dashboard/chart", &chart))
	assert.Nil(t, chart)
}

func TestSnapshots(t *testing.T) {
	disabled := newTestRouter(t, contracts.BandActor("u", "b"), nil, &fakeMutator{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, disabled, "GET", "/api/dashboard/snapshots", nil))

	h := newTestRouter(t, contracts.BandActor("u", "b"), nil, &fakeMutator{}, fakeSnapshots{})
	var snaps []dashboard.Snapshot
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/dashboard/snapshots?limit=5", &snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, 5, snaps[0].Total)
	assert.Equal(t, contracts.BandActor("u", "b"), snaps[0].Actor)
}

func TestCalendar(t *testing.T) {
	h := newTestRouter(t, contracts.BandActor("u", "b"), fixture(), &fakeMutator{}, nil)

	var marks map[string]map[string]interface{}
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/calendar/marks", &marks))
	assert.Len(t, marks, 1)
	assert.Contains(t, marks, "2025-06-20")

	var agenda handlers.AgendaResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/calendar/agenda?date=2025-06-20", &agenda))
	require.Len(t, agenda.Cards, 1)
	assert.Equal(t, "Rock Fest", agenda.Cards[0].Title)

	var empty handlers.AgendaResponse
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/calendar/agenda?date=2025-06-21", &empty))
	assert.Empty(t, empty.Cards)
	assert.NotEmpty(t, empty.EmptyMessage)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/calendar/agenda?date=tomorrow", nil))
}

func TestMe(t *testing.T) {
	h := newTestRouter(t, contracts.VenueActor("u9", "v3"), nil, &fakeMutator{}, nil)

	var actor contracts.Actor
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/me", &actor))
	assert.Equal(t, contracts.VenueActor("u9", "v3"), actor)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	var body map[string]string
	assert.Equal(t, http.StatusInternalServerError, do(t, h, "GET", "/", &body))
	assert.Equal(t, "Internal server error", body["error"])
}
