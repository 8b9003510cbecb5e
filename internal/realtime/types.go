package realtime

import (
	"time"

	"github.com/gigapp/gig/backend/internal/contracts"
)

// EventType names a push event
type EventType string

const (
	// EventContractsRefreshed tells clients to re-read the derived views
	EventContractsRefreshed EventType = "contracts.refreshed"
	// EventNotification carries a transient success or error message
	EventNotification EventType = "notification"
)

// Event is one message pushed to websocket clients
// ⭐ SSOT: the push wire format
type Event struct {
	Type       EventType    `json:"type"`
	Version    uint64       `json:"version,omitempty"`
	Level      string       `json:"level,omitempty"`
	Message    string       `json:"message,omitempty"`
	ContractID contracts.ID `json:"contractId,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}
