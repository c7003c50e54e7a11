// Package customer implements the Customer aggregate as a pure
// decide/evolve pair. Decide validates a command against the current state
// and returns the events that would result; Evolve folds one event into the
// state. Neither touches storage or the clock.
package customer

import (
	"fmt"
	"time"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/events"
)

// State is the replayed state of a customer aggregate. The zero value means
// "never created".
type State struct {
	ID           string
	NIC          string
	Firstname    string
	Name         string
	PlaceOfBirth string
	DateOfBirth  time.Time
	Nationality  string
	Sex          domain.Sex
	Creation     time.Time
	LastUpdate   *time.Time
	Deleted      bool
}

// Exists reports whether the aggregate has been created.
func (s State) Exists() bool { return s.ID != "" }

// Decide validates cmd against s and returns the resulting events.
//
// NIC uniqueness is a cross-aggregate invariant and is NOT checked here; the
// projector enforces it against the read model.
func Decide(s State, cmd commands.Command) ([]events.Event, error) {
	switch c := cmd.(type) {
	case commands.CreateCustomer:
		if s.Exists() {
			return nil, domain.ErrAlreadyExists
		}
		return []events.Event{events.CustomerCreated{
			ID:           c.ID,
			NIC:          c.NIC,
			Firstname:    c.Firstname,
			Name:         c.Name,
			PlaceOfBirth: c.PlaceOfBirth,
			DateOfBirth:  c.DateOfBirth,
			Nationality:  c.Nationality,
			Sex:          c.Sex,
			Creation:     c.Creation,
		}}, nil

	case commands.UpdateCustomer:
		if !s.Exists() {
			return nil, domain.ErrCustomerNotFound
		}
		if s.Deleted {
			return nil, domain.ErrCustomerDeleted
		}
		return []events.Event{events.CustomerUpdated{
			ID:           c.ID,
			NIC:          c.NIC,
			Firstname:    c.Firstname,
			Name:         c.Name,
			PlaceOfBirth: c.PlaceOfBirth,
			DateOfBirth:  c.DateOfBirth,
			Nationality:  c.Nationality,
			Sex:          c.Sex,
			LastUpdate:   c.LastUpdate,
		}}, nil

	case commands.DeleteCustomer:
		if !s.Exists() {
			return nil, domain.ErrCustomerNotFound
		}
		if s.Deleted {
			return nil, domain.ErrCustomerDeleted
		}
		return []events.Event{events.CustomerDeleted{ID: c.ID}}, nil

	default:
		return nil, fmt.Errorf("customer aggregate cannot handle %s", cmd.CommandType())
	}
}

// Evolve folds one event into the state. It is total over all persisted
// customer events so replay never fails; unknown events leave the state
// untouched.
func Evolve(s State, e events.Event) State {
	switch evt := e.(type) {
	case events.CustomerCreated:
		return State{
			ID:           evt.ID,
			NIC:          evt.NIC,
			Firstname:    evt.Firstname,
			Name:         evt.Name,
			PlaceOfBirth: evt.PlaceOfBirth,
			DateOfBirth:  evt.DateOfBirth,
			Nationality:  evt.Nationality,
			Sex:          evt.Sex,
			Creation:     evt.Creation,
		}
	case events.CustomerUpdated:
		s.NIC = evt.NIC
		s.Firstname = evt.Firstname
		s.Name = evt.Name
		s.PlaceOfBirth = evt.PlaceOfBirth
		s.DateOfBirth = evt.DateOfBirth
		s.Nationality = evt.Nationality
		s.Sex = evt.Sex
		lastUpdate := evt.LastUpdate
		s.LastUpdate = &lastUpdate
		return s
	case events.CustomerDeleted:
		s.Deleted = true
		return s
	default:
		return s
	}
}
