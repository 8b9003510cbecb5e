package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRole means the profile has neither a band nor a venue
	ErrNoRole = errors.New("profile has neither a band nor a venue")
	// ErrAmbiguousRole means the profile has both a band and a venue
	ErrAmbiguousRole = errors.New("profile has both a band and a venue")
)

// Role is the side a user acts on in a contract
type Role string

const (
	RoleBand  Role = "band"
	RoleVenue Role = "venue"
)

// Roles lists both roles
var Roles = []Role{RoleBand, RoleVenue}

// PartyRef is the {id} object attached to a profile
type PartyRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
}

// Profile mirrors GET /users/me
type Profile struct {
	ID    ID        `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Band  *PartyRef `json:"band"`
	Venue *PartyRef `json:"venue"`
}

// Actor is the acting party: exactly one of band or venue.
// Kind is the discriminator; PartyID is the band id or venue id.
type Actor struct {
	UserID  ID   `json:"userId"`
	Kind    Role `json:"kind"`
	PartyID ID   `json:"partyId"`
}

// BandActor builds a band-side actor
func BandActor(userID, bandID ID) Actor {
	return Actor{UserID: userID, Kind: RoleBand, PartyID: bandID}
}

// VenueActor builds a venue-side actor
func VenueActor(userID, venueID ID) Actor {
	return Actor{UserID: userID, Kind: RoleVenue, PartyID: venueID}
}

// ActorFromProfile turns the optional band/venue fields into the tagged variant
func ActorFromProfile(p Profile) (Actor, error) {
	hasBand := p.Band != nil && p.Band.ID != ""
	hasVenue := p.Venue != nil && p.Venue.ID != ""

	switch {
	case hasBand && hasVenue:
		return Actor{}, fmt.Errorf("user %s: %w", p.ID, ErrAmbiguousRole)
	case hasBand:
		return BandActor(p.ID, p.Band.ID), nil
	case hasVenue:
		return VenueActor(p.ID, p.Venue.ID), nil
	default:
		return Actor{}, fmt.Errorf("user %s: %w", p.ID, ErrNoRole)
	}
}

// Valid reports whether the actor carries a known kind and a party id
func (a Actor) Valid() bool {
	return (a.Kind == RoleBand || a.Kind == RoleVenue) && a.PartyID != ""
}

// Counterpart returns the other side of the contract from the actor's view
func (a Actor) Counterpart(c Contract) Party {
	if a.Kind == RoleBand {
		return c.Requester
	}
	return c.Provider
}

// String renders the actor for logs
func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.Kind, a.PartyID)
}
