package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Contract is a booking between a band (provider) and a venue (requester)
// ⭐ SSOT: the wire shape of /contract responses is defined here only
type Contract struct {
	ID                ID     `json:"id"`
	EventName         string `json:"eventName"`
	EventType         string `json:"eventType"`
	EventDate         string `json:"eventDate"` // YYYY-MM-DD or an ISO date-time
	StartTime         string `json:"startTime"` // free-form, e.g. "20:00"
	EndTime           string `json:"endTime"`
	Budget            Budget `json:"budget"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
	Status            Status `json:"status"`
	Provider          Party  `json:"provider"`
	Requester         Party  `json:"requester"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// Party is the snapshot of a band or venue embedded in a contract
type Party struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
	City         string `json:"city,omitempty"`
	UserID       ID     `json:"userId,omitempty"`
}

// Status is the contract lifecycle state. Values are matched case-sensitively.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCanceled  Status = "canceled"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusPending, StatusConfirmed, StatusDeclined, StatusCanceled}

// Valid reports whether s is one of the four known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCanceled:
		return true
	default:
		return false
	}
}

// Label returns the human readable status
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusDeclined:
		return "Declined"
	case StatusCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// ID is an opaque identifier. The backend sends numbers or strings.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the raw identifier
func (id ID) String() string {
	return string(id)
}

// Budget is a non-negative amount. Anything that does not decode to a finite,
// non-negative number is kept as 0 and flagged invalid; decoding never fails.
type Budget struct {
	amount  float64
	invalid bool
}

// NewBudget returns a budget for amount, coercing bad values to 0
func NewBudget(amount float64) Budget {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Budget{invalid: true}
	}
	return Budget{amount: amount}
}

// ParseBudget parses a textual amount such as "1500" or "1,500.50"
func ParseBudget(raw string) Budget {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return Budget{invalid: true}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Budget{invalid: true}
	}
	return NewBudget(f)
}

// Amount is the coerced value, always finite and >= 0
func (b Budget) Amount() float64 {
	return b.amount
}

// Valid reports whether the original value was a usable amount
func (b Budget) Valid() bool {
	return !b.invalid
}

// UnmarshalJSON accepts a number, a numeric string or anything else (coerced to 0)
func (b *Budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*b = Budget{invalid: true}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*b = Budget{invalid: true}
			return nil
		}
		*b = ParseBudget(s)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*b = Budget{invalid: true}
			return nil
		}
		*b = NewBudget(f)
	}
	return nil
}

// MarshalJSON writes the coerced amount
func (b Budget) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(b.amount, 'f', -1, 64)), nil
}
