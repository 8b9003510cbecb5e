// Package board owns the fetched contract collection of one acting party.
// Cards signal it after a successful mutation; it refetches, bumps its
// version and tells subscribers, who re-read the derived views.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gigapp/gig/backend/internal/calendar"
	"github.com/gigapp/gig/backend/internal/card"
	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/dashboard"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// Source fetches the collection for an actor
type Source interface {
	ContractsFor(ctx context.Context, actor contracts.Actor) ([]contracts.Contract, error)
}

// Subscriber is called with the new version after every successful refresh
type Subscriber func(version uint64)

// Board is the single owner of the contract collection
// ⭐ SSOT: the contract collection lives here; views derive from it
type Board struct {
	actor    contracts.Actor
	source   Source
	mutator  card.Mutator
	notifier card.Notifier
	logger   *logger.Logger
	now      func() time.Time

	mu          sync.RWMutex
	collection  []contracts.Contract
	cards       map[contracts.ID]*card.Card
	version     uint64
	refreshedAt time.Time
	lastErr     error

	refreshMu sync.Mutex
	signal    chan struct{}

	subsMu sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// Option customizes a Board
type Option func(*Board)

// WithClock replaces time.Now for every derived view
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// WithNotifier routes card notifications, e.g. to the websocket hub
func WithNotifier(n card.Notifier) Option {
	return func(b *Board) {
		b.notifier = n
	}
}

// New creates an empty board. Call Refresh to load it.
func New(actor contracts.Actor, source Source, mutator card.Mutator, log *logger.Logger, opts ...Option) *Board {
	b := &Board{
		actor:      actor,
		source:     source,
		mutator:    mutator,
		logger:     log.WithField("actor", actor.String()),
		now:        time.Now,
		collection: []contracts.Contract{},
		cards:      make(map[contracts.ID]*card.Card),
		signal:     make(chan struct{}, 1),
		subs:       make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Actor returns the acting party
func (b *Board) Actor() contracts.Actor {
	return b.actor
}

// Refresh refetches the collection. On failure the previous collection is
// kept and the error is remembered for Err.
func (b *Board) Refresh(ctx context.Context) error {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	start := time.Now()
	collection, err := b.source.ContractsFor(ctx, b.actor)
	if err != nil {
		b.mu.Lock()
		b.lastErr = err
		b.mu.Unlock()

		b.logger.WithError(err).Warn("Contract refresh failed")
		return fmt.Errorf("refresh contracts: %w", err)
	}
	if collection == nil {
		collection = []contracts.Contract{}
	}

	b.mu.Lock()
	b.collection = collection
	b.cards = b.rebuildCards(collection)
	b.version++
	b.refreshedAt = b.now()
	b.lastErr = nil
	version := b.version
	b.mu.Unlock()

	b.logger.WithFields(map[string]interface{}{
		"version":  version,
		"count":    len(collection),
		"duration": time.Since(start),
	}).Debug("Contracts refreshed")

	b.publish(version)
	return nil
}

// rebuildCards keeps a card when its contract is unchanged or it has a
// mutation in flight, so one contract never has two live cards. Caller holds mu.
func (b *Board) rebuildCards(collection []contracts.Contract) map[contracts.ID]*card.Card {
	cards := make(map[contracts.ID]*card.Card, len(collection))
	for _, c := range collection {
		if old, ok := b.cards[c.ID]; ok && (old.Contract() == c || old.Disabled()) {
			cards[c.ID] = old
			continue
		}
		cards[c.ID] = card.New(c, b.actor, b.mutator, b, b.notifier, b.logger, card.WithClock(b.now))
	}
	return cards
}

// Signal requests a refetch. It never blocks; repeated signals before the
// refetch starts collapse into one.
func (b *Board) Signal() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Run serves Signal requests until ctx is done
func (b *Board) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.signal:
			_ = b.Refresh(ctx)
		}
	}
}

// Subscribe registers fn and returns a function that removes it
func (b *Board) Subscribe(fn Subscriber) func() {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.subsMu.Lock()
		defer b.subsMu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Board) publish(version uint64) {
	b.subsMu.Lock()
	subs := make([]Subscriber, 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.subsMu.Unlock()

	for _, fn := range subs {
		fn(version)
	}
}

// Version counts successful refreshes; 0 means never loaded
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// RefreshedAt is the time of the last successful refresh
func (b *Board) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}

// Err returns the error of the last refresh, nil if it succeeded
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// Contracts returns a copy of the collection
func (b *Board) Contracts() []contracts.Contract {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]contracts.Contract, len(b.collection))
	copy(out, b.collection)
	return out
}

// Filtered returns the contracts of a tab in source order
func (b *Board) Filtered(tab contracts.Tab) []contracts.Contract {
	return contracts.FilterContracts(b.Contracts(), tab)
}

// Dashboard aggregates the collection as of now
func (b *Board) Dashboard() dashboard.Summary {
	return dashboard.Aggregate(b.Contracts(), b.now())
}

// Marked returns the calendar markers
func (b *Board) Marked() map[string]calendar.Marker {
	return calendar.MarkedDates(b.Contracts())
}

// Agenda returns the confirmed contracts on date
func (b *Board) Agenda(date string) []contracts.Contract {
	return calendar.AgendaForDate(b.Contracts(), date)
}

// Card returns the live card for id
func (b *Board) Card(id contracts.ID) (*card.Card, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.cards[id]
	return c, ok
}

// Cards returns the live cards of a tab in source order
func (b *Board) Cards(tab contracts.Tab) []*card.Card {
	b.mu.RLock()
	defer b.mu.RUnlock()

	filtered := contracts.FilterContracts(b.collection, tab)
	out := make([]*card.Card, 0, len(filtered))
	for _, c := range filtered {
		if cd, ok := b.cards[c.ID]; ok {
			out = append(out, cd)
		}
	}
	return out
}
