package contracts

import (
	"fmt"
	"strings"
	"time"
)

// CancellationNoticeDays is the minimum notice, in whole days, for a cancel.
// Exactly this many days or fewer is too late.
const CancellationNoticeDays = 7

// Action is a status transition a party can request
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionCancel  Action = "cancel"
)

// ParseAction parses a user supplied action name
func ParseAction(raw string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionAccept:
		return ActionAccept, nil
	case ActionDecline:
		return ActionDecline, nil
	case ActionCancel:
		return ActionCancel, nil
	default:
		return "", fmt.Errorf("unknown action %q", raw)
	}
}

// Accepted is the flag sent to PATCH /contract/{id}/respond
func (a Action) Accepted() bool {
	return a == ActionAccept
}

// Label returns the button text for an action
func (a Action) Label() string {
	switch a {
	case ActionAccept:
		return "Accept"
	case ActionDecline:
		return "Decline"
	case ActionCancel:
		return "Cancel"
	default:
		return string(a)
	}
}

// AvailableActions is defined for every (status, role) pair:
//
//	band  + pending             -> accept, decline
//	venue + pending|confirmed   -> cancel
//	anything else               -> none
func AvailableActions(status Status, role Role) []Action {
	switch role {
	case RoleBand:
		if status == StatusPending {
			return []Action{ActionAccept, ActionDecline}
		}
	case RoleVenue:
		if status == StatusPending || status == StatusConfirmed {
			return []Action{ActionCancel}
		}
	}
	return []Action{}
}

// IsCancellationAllowed is true iff eventDate is more than
// CancellationNoticeDays whole calendar days after today.
func IsCancellationAllowed(eventDate, today time.Time) bool {
	return DaysBetween(today, eventDate) > CancellationNoticeDays
}

// CanCancel applies the deadline rule to a contract. An unparseable event
// date cannot be checked, so cancellation is refused.
func CanCancel(c Contract, today time.Time) bool {
	day, ok := c.EventDay()
	if !ok {
		return false
	}
	return IsCancellationAllowed(day, today)
}

// NextStatus maps an action to the status the backend will report after it
func NextStatus(a Action) Status {
	switch a {
	case ActionAccept:
		return StatusConfirmed
	case ActionDecline:
		return StatusDeclined
	case ActionCancel:
		return StatusCanceled
	default:
		return ""
	}
}

// HasAction reports whether a is in actions
func HasAction(actions []Action, a Action) bool {
	for _, candidate := range actions {
		if candidate == a {
			return true
		}
	}
	return false
}
