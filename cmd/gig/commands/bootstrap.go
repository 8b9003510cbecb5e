package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/card"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/internal/external/gig"
	"github.com/gigapp/gig/backend/internal/session"
	"github.com/gigapp/gig/backend/pkg/config"
	"github.com/gigapp/gig/backend/pkg/database"
	"github.com/gigapp/gig/backend/pkg/httputil"
	"github.com/gigapp/gig/backend/pkg/logger"
	"github.com/gigapp/gig/backend/pkg/redis"
)

// app holds the wiring shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	store   session.Store
	client  *gig.Client
	db      *database.DB
	closers []func()
}

// newApp loads config and builds the backend client and session store
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if profile != "" {
		cfg.Session.Profile = profile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	store, err := session.New(cfg, rdb)
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}

	httpClient := httputil.New(cfg, log)
	if rdb.Enabled() {
		httpClient.WithRateLimiter(redis.NewRateLimiter(rdb, "gig"), redis.GigAPIRateLimit(cfg.API.RateLimit))
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		redis:  rdb,
		store:  store,
		client: gig.NewClient(httpClient, store, cfg.API.BaseURL, log),
	}
	a.closers = append(a.closers, func() { rdb.Close() })
	return a, nil
}

// close releases connections in reverse order
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// database connects to PostgreSQL once. It returns database.ErrNotConfigured
// when DATABASE_URL is empty.
func (a *app) database() (*database.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.New(a.cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)
	return db, nil
}

// snapshotRepository returns the snapshot archive with its table in place
func (a *app) snapshotRepository(ctx context.Context) (*dashboard.Repository, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	repo := dashboard.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// actor resolves the signed-in band or venue
func (a *app) actor(ctx context.Context) (contracts.Actor, error) {
	actor, err := session.ResolveActor(ctx, a.client)
	if err != nil {
		return contracts.Actor{}, explain(err)
	}
	return actor, nil
}

// loadBoard resolves the actor and fetches its contracts
func (a *app) loadBoard(ctx context.Context, opts ...board.Option) (*board.Board, error) {
	actor, err := a.actor(ctx)
	if err != nil {
		return nil, err
	}

	b := board.New(actor, a.client, a.client, a.log, opts...)
	if err := b.Refresh(ctx); err != nil {
		return nil, explain(err)
	}
	return b, nil
}

// commandContext bounds one-shot commands by the backend timeout plus slack for retries
func (a *app) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(a.cfg.API.MaxRetries+2)*a.cfg.API.Timeout)
}

// cliNotifier prints card notifications
type cliNotifier struct {
	p *printer
}

func (n cliNotifier) Notify(note card.Notification) {
	if note.Level == card.LevelError {
		n.p.Error(note.Message)
		return
	}
	n.p.Success(note.Message)
}
