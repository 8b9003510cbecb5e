package card

import (
	"strconv"

	"github.com/gigapp/gig/backend/internal/contracts"
)

// View is the render model of a card, shared by the CLI and the HTTP API
type View struct {
	ID           contracts.ID       `json:"id"`
	Title        string             `json:"title"`
	EventType    string             `json:"eventType"`
	Date         string             `json:"date"`
	StartTime    string             `json:"startTime"`
	EndTime      string             `json:"endTime"`
	Budget       string             `json:"budget"`
	Status       contracts.Status   `json:"status"`
	StatusLabel  string             `json:"statusLabel"`
	Counterpart  string             `json:"counterpart"`
	Details      string             `json:"details,omitempty"`
	Actions      []contracts.Action `json:"actions"`
	Disabled     bool               `json:"disabled"`
	CancelLocked bool               `json:"cancelLocked"`
}

// Render builds the view from the card's current state
func (c *Card) Render() View {
	ct := c.contract
	actions := c.Actions()

	budget := "$" + strconv.FormatFloat(ct.Budget.Amount(), 'f', 2, 64)
	if !ct.Budget.Valid() {
		budget = "-"
	}

	offered := contracts.AvailableActions(ct.Status, c.actor.Kind)

	return View{
		ID:           ct.ID,
		Title:        ct.EventName,
		EventType:    ct.EventType,
		Date:         contracts.NormalizeDate(ct.EventDate),
		StartTime:    ct.StartTime,
		EndTime:      ct.EndTime,
		Budget:       budget,
		Status:       ct.Status,
		StatusLabel:  ct.Status.Label(),
		Counterpart:  c.actor.Counterpart(ct).Name,
		Details:      ct.AdditionalDetails,
		Actions:      actions,
		Disabled:     c.Disabled(),
		CancelLocked: contracts.HasAction(offered, contracts.ActionCancel) && !contracts.HasAction(actions, contracts.ActionCancel),
	}
}
