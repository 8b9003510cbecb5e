package gig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/session"
	"github.com/gigapp/gig/backend/pkg/config"
	"github.com/gigapp/gig/backend/pkg/httputil"
	"github.com/gigapp/gig/backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{API: config.APIConfig{BaseURL: server.URL, Timeout: 2 * time.Second, MaxRetries: 2}}
	httpClient := httputil.New(cfg, logger.Nop()).WithRetry(2, time.Millisecond)

	return NewClient(httpClient, session.NewStaticProvider("secret"), server.URL+"/", logger.Nop())
}

func TestClient_Me(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id": 12, "name": "Ana", "band": {"id": 7}, "venue": null}`)
	})

	profile, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contracts.ID("12"), profile.ID)
	require.NotNil(t, profile.Band)
	assert.Equal(t, contracts.ID("7"), profile.Band.ID)
	assert.Nil(t, profile.Venue)
}

func TestClient_ContractsFor(t *testing.T) {
	tests := []struct {
		actor contracts.Actor
		path  string
	}{
		{contracts.BandActor("u", "7"), "/contract/band/7"},
		{contracts.VenueActor("u", "v 1"), "/contract/venue/v 1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.actor.Kind), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.path, r.URL.Path)
				fmt.Fprint(w, `[{"id": 1, "eventName": "Gala", "eventDate": "2025-06-01T00:00:00.000Z", "budget": "1500", "status": "pending"}]`)
			})

			got, err := client.ContractsFor(context.Background(), tt.actor)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, contracts.ID("1"), got[0].ID)
			assert.Equal(t, 1500.0, got[0].Budget.Amount())
			assert.Equal(t, contracts.StatusPending, got[0].Status)
		})
	}
}

func TestClient_ContractsFor_NullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	})

	got, err := client.BandContracts(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_ContractsFor_UnknownActor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.ContractsFor(context.Background(), contracts.Actor{})
	assert.Error(t, err)
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[]`)
	})

	_, err := client.VenueContracts(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Respond(t *testing.T) {
	for _, accepted := range []bool{true, false} {
		t.Run(fmt.Sprint(accepted), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, "/contract/42/respond", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, map[string]interface{}{"accepted": accepted}, body)

				status := "declined"
				if accepted {
					status = "confirmed"
				}
				fmt.Fprintf(w, `{"id": "42", "status": %q}`, status)
			})

			got, err := client.Respond(context.Background(), "42", accepted)
			require.NoError(t, err)
			if accepted {
				assert.Equal(t, contracts.StatusConfirmed, got.Status)
			} else {
				assert.Equal(t, contracts.StatusDeclined, got.Status)
			}
		})
	}
}

func TestClient_CancelIsSentOnce(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/contract/9/cancel", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"message": "Try later"}`)
	})

	_, err := client.Cancel(context.Background(), "9")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "Try later", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_NoSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a token")
	}))
	defer server.Close()

	cfg := &config.Config{API: config.APIConfig{Timeout: time.Second}}
	client := NewClient(httputil.New(cfg, logger.Nop()), session.NewStaticProvider(""), server.URL, logger.Nop())

	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestClient_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"statusCode": 401, "message": "Unauthorized"}`)
	})

	_, err := client.Me(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, "Unauthorized", MessageOf(err))
}
