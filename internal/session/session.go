// Package session supplies the bearer token for backend calls and resolves
// the acting band or venue from the signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/pkg/config"
	"github.com/gigapp/gig/backend/pkg/redis"
)

var (
	// ErrNoSession means no token is stored; the user must log in
	ErrNoSession = errors.New("not logged in")
	// ErrReadOnly is returned by stores that cannot be written, such as GIG_TOKEN
	ErrReadOnly = errors.New("session store is read-only")
)

// Provider yields the current bearer token
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Store is a Provider that can also persist and forget the token
type Store interface {
	Provider
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ProfileFetcher loads the signed-in user's profile
type ProfileFetcher interface {
	Me(ctx context.Context) (contracts.Profile, error)
}

// New builds the store selected by SESSION_STORE.
// rdb is only needed for the redis store.
func New(cfg *config.Config, rdb *redis.Client) (Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreFile:
		return NewFileStore(cfg.Session.File, cfg.Session.Profile), nil
	case config.SessionStoreRedis:
		return NewRedisStore(rdb, cfg.Session.Profile)
	case config.SessionStoreEnv:
		return NewStaticProvider(cfg.Session.Token), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

// ResolveActor fetches /users/me and derives the acting party
func ResolveActor(ctx context.Context, fetcher ProfileFetcher) (contracts.Actor, error) {
	profile, err := fetcher.Me(ctx)
	if err != nil {
		return contracts.Actor{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return contracts.ActorFromProfile(profile)
}

// StaticProvider serves a fixed token, typically from GIG_TOKEN
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a provider for token
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// Token returns the fixed token or ErrNoSession when it is empty
func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	if p.token == "" {
		return "", ErrNoSession
	}
	return p.token, nil
}

// Save always fails: the token comes from the environment
func (p *StaticProvider) Save(ctx context.Context, token string) error {
	return ErrReadOnly
}

// Clear always fails: the token comes from the environment
func (p *StaticProvider) Clear(ctx context.Context) error {
	return ErrReadOnly
}
