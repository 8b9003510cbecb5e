// Package card drives one contract card: which actions it offers, the
// one-mutation-in-flight rule, and what happens after the backend answers.
package card

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// FallbackErrorMessage is shown when the backend gives no usable message
const FallbackErrorMessage = "Something went wrong. Please try again."

var (
	// ErrBusy means a mutation for this card is already in flight
	ErrBusy = errors.New("an action is already in progress for this contract")
	// ErrActionUnavailable means the action is not offered for the card's state
	ErrActionUnavailable = errors.New("action not available for this contract")
)

// Mutator performs the backend mutations
type Mutator interface {
	Respond(ctx context.Context, id contracts.ID, accepted bool) (contracts.Contract, error)
	Cancel(ctx context.Context, id contracts.ID) (contracts.Contract, error)
}

// Refresher is told that the collection is stale after a successful mutation
type Refresher interface {
	Signal()
}

// Level of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the user
type Notification struct {
	Level      Level        `json:"level"`
	Message    string       `json:"message"`
	ContractID contracts.ID `json:"contractId,omitempty"`
}

// Notifier displays notifications
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Card is the interactive view of one contract for the acting party
type Card struct {
	contract  contracts.Contract
	actor     contracts.Actor
	mutator   Mutator
	refresher Refresher
	notifier  Notifier
	logger    *logger.Logger
	now       func() time.Time

	busy atomic.Bool
}

// Option customizes a Card
type Option func(*Card)

// WithClock replaces time.Now for the cancellation deadline
func WithClock(now func() time.Time) Option {
	return func(c *Card) {
		c.now = now
	}
}

// New creates a card. notifier may be nil.
func New(contract contracts.Contract, actor contracts.Actor, mutator Mutator, refresher Refresher, notifier Notifier, log *logger.Logger, opts ...Option) *Card {
	c := &Card{
		contract:  contract,
		actor:     actor,
		mutator:   mutator,
		refresher: refresher,
		notifier:  notifier,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Contract returns the contract as last fetched. Press never changes it.
func (c *Card) Contract() contracts.Contract {
	return c.contract
}

// Disabled reports whether a mutation is in flight
func (c *Card) Disabled() bool {
	return c.busy.Load()
}

// Actions returns the actions to offer. Cancel is dropped once the event is
// CancellationNoticeDays or fewer days away.
func (c *Card) Actions() []contracts.Action {
	actions := contracts.AvailableActions(c.contract.Status, c.actor.Kind)
	if !contracts.HasAction(actions, contracts.ActionCancel) {
		return actions
	}
	if contracts.CanCancel(c.contract, c.now()) {
		return actions
	}

	out := make([]contracts.Action, 0, len(actions))
	for _, a := range actions {
		if a != contracts.ActionCancel {
			out = append(out, a)
		}
	}
	return out
}

// Press performs action. It issues at most one backend call; on success the
// refresher is signalled exactly once and the card keeps its old status until
// the collection is refetched.
func (c *Card) Press(ctx context.Context, action contracts.Action) error {
	if !contracts.HasAction(c.Actions(), action) {
		return fmt.Errorf("%s contract %s: %w", action, c.contract.ID, ErrActionUnavailable)
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	log := c.logger.WithFields(map[string]interface{}{
		"contract_id": c.contract.ID,
		"action":      action,
		"actor":       c.actor.String(),
	})

	if err := c.mutate(ctx, action); err != nil {
		log.WithError(err).Warn("Contract action failed")
		c.notify(Notification{Level: LevelError, Message: ErrorMessage(err), ContractID: c.contract.ID})
		return err
	}

	log.Info("Contract action succeeded")
	c.refresher.Signal()
	c.notify(Notification{Level: LevelSuccess, Message: successMessage(action), ContractID: c.contract.ID})
	return nil
}

// mutate sends the single backend call and re-enables the card when it returns
func (c *Card) mutate(ctx context.Context, action contracts.Action) error {
	defer c.busy.Store(false)

	var err error
	switch action {
	case contracts.ActionAccept, contracts.ActionDecline:
		_, err = c.mutator.Respond(ctx, c.contract.ID, action.Accepted())
	case contracts.ActionCancel:
		_, err = c.mutator.Cancel(ctx, c.contract.ID)
	}
	return err
}

func (c *Card) notify(n Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

// messager is implemented by errors that carry a user-facing backend message
type messager interface {
	UserMessage() string
}

// ErrorMessage picks the text to show for a failed action
func ErrorMessage(err error) string {
	var m messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return FallbackErrorMessage
}

func successMessage(action contracts.Action) string {
	switch action {
	case contracts.ActionAccept:
		return "Contract accepted."
	case contracts.ActionDecline:
		return "Contract declined."
	case contracts.ActionCancel:
		return "Contract canceled."
	default:
		return "Done."
	}
}
