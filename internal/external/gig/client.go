package gig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/session"
	"github.com/gigapp/gig/backend/pkg/httputil"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// maxBodySize caps how much of a response is read
const maxBodySize = 4 << 20

// Client handles communication with the Gig REST backend
// ⭐ SSOT: Gig backend endpoints are called from this client only
type Client struct {
	httpClient *httputil.Client
	tokens     session.Provider
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Gig backend client
func NewClient(httpClient *httputil.Client, tokens session.Provider, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Me fetches the signed-in user's profile
func (c *Client) Me(ctx context.Context) (contracts.Profile, error) {
	var profile contracts.Profile
	if err := c.call(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return contracts.Profile{}, err
	}
	return profile, nil
}

// BandContracts lists the contracts where the band is the provider
func (c *Client) BandContracts(ctx context.Context, bandID contracts.ID) ([]contracts.Contract, error) {
	return c.list(ctx, "/contract/band/"+url.PathEscape(bandID.String()))
}

// VenueContracts lists the contracts where the venue is the requester
func (c *Client) VenueContracts(ctx context.Context, venueID contracts.ID) ([]contracts.Contract, error) {
	return c.list(ctx, "/contract/venue/"+url.PathEscape(venueID.String()))
}

// ContractsFor lists the acting party's contracts
func (c *Client) ContractsFor(ctx context.Context, actor contracts.Actor) ([]contracts.Contract, error) {
	switch actor.Kind {
	case contracts.RoleBand:
		return c.BandContracts(ctx, actor.PartyID)
	case contracts.RoleVenue:
		return c.VenueContracts(ctx, actor.PartyID)
	default:
		return nil, fmt.Errorf("unknown actor kind %q", actor.Kind)
	}
}

// Respond accepts or declines a pending contract as the band
func (c *Client) Respond(ctx context.Context, id contracts.ID, accepted bool) (contracts.Contract, error) {
	body := struct {
		Accepted bool `json:"accepted"`
	}{Accepted: accepted}

	var updated contracts.Contract
	path := fmt.Sprintf("/contract/%s/respond", url.PathEscape(id.String()))
	if err := c.call(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return contracts.Contract{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"contract_id": id,
		"accepted":    accepted,
		"status":      updated.Status,
	}).Info("Contract response sent")
	return updated, nil
}

// Cancel cancels a pending or confirmed contract as the venue
func (c *Client) Cancel(ctx context.Context, id contracts.ID) (contracts.Contract, error) {
	var updated contracts.Contract
	path := fmt.Sprintf("/contract/%s/cancel", url.PathEscape(id.String()))
	if err := c.call(ctx, http.MethodPatch, path, nil, &updated); err != nil {
		return contracts.Contract{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"contract_id": id,
		"status":      updated.Status,
	}).Info("Contract canceled")
	return updated, nil
}

func (c *Client) list(ctx context.Context, path string) ([]contracts.Contract, error) {
	var collection []contracts.Contract
	if err := c.call(ctx, http.MethodGet, path, nil, &collection); err != nil {
		return nil, err
	}
	if collection == nil {
		collection = []contracts.Contract{}
	}
	return collection, nil
}

// call sends one authenticated request and decodes a 2xx JSON body into out.
// out may be nil, and an empty 2xx body leaves it untouched.
func (c *Client) call(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(ctx, method, c.baseURL+path, payload, header)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, resp.Header.Get("Content-Type"), body)
		c.logger.WithFields(map[string]interface{}{
			"method":      method,
			"path":        path,
			"status_code": resp.StatusCode,
			"message":     apiErr.Message,
		}).Warn("Gig API returned an error")
		return apiErr
	}

	if out == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
