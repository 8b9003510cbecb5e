package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/pkg/config"
	"github.com/gigapp/gig/backend/pkg/redis"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path, "work")

	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, "tok-1"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear(ctx))
	_, err = store.Token(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, store.Clear(ctx), "clearing twice is fine")
}

func TestFileStore_ProfilesAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	band := NewFileStore(path, "band")
	venue := NewFileStore(path, "venue")

	require.NoError(t, band.Save(ctx, "band-token"))
	require.NoError(t, venue.Save(ctx, "venue-token"))
	require.NoError(t, band.Clear(ctx))

	_, err := band.Token(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	token, err := venue.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "venue-token", token)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path, "").Token(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestFileStore_RejectsEmptyToken(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "s.json"), "")
	assert.Error(t, store.Save(context.Background(), ""))
}

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	_, err := NewStaticProvider("").Token(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	p := NewStaticProvider("env-token")
	token, err := p.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)

	assert.ErrorIs(t, p.Save(ctx, "x"), ErrReadOnly)
	assert.ErrorIs(t, p.Clear(ctx), ErrReadOnly)
}

func TestNewRedisStore_RequiresEnabledClient(t *testing.T) {
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)

	_, err = NewRedisStore(client, "default")
	assert.Error(t, err)

	_, err = NewRedisStore(nil, "default")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		session config.SessionConfig
		want    interface{}
		wantErr bool
	}{
		{"file", config.SessionConfig{Store: config.SessionStoreFile, File: filepath.Join(dir, "s.json")}, &FileStore{}, false},
		{"env", config.SessionConfig{Store: config.SessionStoreEnv, Token: "t"}, &StaticProvider{}, false},
		{"redis disabled", config.SessionConfig{Store: config.SessionStoreRedis}, nil, true},
		{"unknown", config.SessionConfig{Store: "keychain"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(&config.Config{Session: tt.session}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}

type fakeFetcher struct {
	profile contracts.Profile
	err     error
}

func (f fakeFetcher) Me(ctx context.Context) (contracts.Profile, error) {
	return f.profile, f.err
}

func TestResolveActor(t *testing.T) {
	ctx := context.Background()

	actor, err := ResolveActor(ctx, fakeFetcher{profile: contracts.Profile{
		ID:   "u1",
		Band: &contracts.PartyRef{ID: "b7"},
	}})
	require.NoError(t, err)
	assert.Equal(t, contracts.BandActor("u1", "b7"), actor)

	actor, err = ResolveActor(ctx, fakeFetcher{profile: contracts.Profile{
		ID:    "u2",
		Venue: &contracts.PartyRef{ID: "v3"},
	}})
	require.NoError(t, err)
	assert.Equal(t, contracts.VenueActor("u2", "v3"), actor)

	_, err = ResolveActor(ctx, fakeFetcher{profile: contracts.Profile{ID: "u3"}})
	assert.ErrorIs(t, err, contracts.ErrNoRole)

	boom := errors.New("boom")
	_, err = ResolveActor(ctx, fakeFetcher{err: boom})
	assert.ErrorIs(t, err, boom)
}
