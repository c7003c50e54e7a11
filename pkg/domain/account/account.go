// Package account implements the Account aggregate as a pure decide/evolve
// pair.
package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/money"
)

// State is the replayed state of an account aggregate. The zero value means
// "never created".
type State struct {
	ID         string
	Balance    money.Money
	Status     domain.AccountStatus
	Creation   time.Time
	LastUpdate *time.Time
	CustomerID string
}

// Exists reports whether the aggregate has been created.
func (s State) Exists() bool { return s.ID != "" }

// Decide validates cmd against s and returns the resulting events.
//
// The debit guard rejects only when balance > 0 and balance < amount. A
// debit against a zero balance emits the event and relies on the projector's
// own balance check; this asymmetry mirrors the write-side rule the log was
// built with and is deliberately kept.
func Decide(s State, cmd commands.Command) ([]events.Event, error) {
	switch c := cmd.(type) {
	case commands.CreateAccount:
		if s.Exists() {
			return nil, domain.ErrAlreadyExists
		}
		// Creation auto-activates: no command is accepted in CREATED.
		return []events.Event{
			events.AccountCreated{
				ID:         c.ID,
				Balance:    c.Balance,
				Status:     domain.StatusCreated,
				Creation:   c.Creation,
				CustomerID: c.CustomerID,
			},
			events.AccountActivated{
				ID:         c.ID,
				Status:     domain.StatusActivated,
				LastUpdate: c.Creation,
			},
		}, nil

	case commands.CreditAccount:
		if !s.Exists() {
			return nil, domain.ErrAccountNotFound
		}
		if !c.Amount.IsPositive() {
			return nil, domain.ErrAmountMustBePositive
		}
		return []events.Event{events.AccountCredited{
			ID:          c.ID,
			Amount:      c.Amount,
			Description: c.Description,
			LastUpdate:  c.DateTime,
		}}, nil

	case commands.DebitAccount:
		if !s.Exists() {
			return nil, domain.ErrAccountNotFound
		}
		if !c.Amount.IsPositive() {
			return nil, domain.ErrAmountMustBePositive
		}
		if s.Balance.IsPositive() && s.Balance.LessThan(c.Amount) {
			return nil, fmt.Errorf("%w: balance %s", domain.ErrInsufficientBalance, s.Balance)
		}
		return []events.Event{events.AccountDebited{
			ID:          c.ID,
			Amount:      c.Amount,
			Description: c.Description,
			LastUpdate:  c.DateTime,
		}}, nil

	case commands.ActivateAccount:
		if !s.Exists() {
			return nil, domain.ErrAccountNotFound
		}
		return []events.Event{events.AccountActivated{
			ID:         c.ID,
			Status:     domain.StatusActivated,
			LastUpdate: c.DateTime,
		}}, nil

	case commands.SuspendAccount:
		if !s.Exists() {
			return nil, domain.ErrAccountNotFound
		}
		return []events.Event{events.AccountSuspended{
			ID:         c.ID,
			Status:     domain.StatusSuspended,
			LastUpdate: c.DateTime,
		}}, nil

	default:
		return nil, fmt.Errorf("account aggregate cannot handle %s", cmd.CommandType())
	}
}

// Evolve folds one event into the state. Total over all persisted account
// events; unknown events leave the state untouched.
func Evolve(s State, e events.Event) State {
	switch evt := e.(type) {
	case events.AccountCreated:
		return State{
			ID:         evt.ID,
			Balance:    evt.Balance,
			Status:     evt.Status,
			Creation:   evt.Creation,
			CustomerID: evt.CustomerID,
		}
	case events.AccountActivated:
		s.Status = evt.Status
		lastUpdate := evt.LastUpdate
		s.LastUpdate = &lastUpdate
		return s
	case events.AccountSuspended:
		s.Status = evt.Status
		lastUpdate := evt.LastUpdate
		s.LastUpdate = &lastUpdate
		return s
	case events.AccountCredited:
		s.Balance = s.Balance.Add(evt.Amount)
		lastUpdate := evt.LastUpdate
		s.LastUpdate = &lastUpdate
		return s
	case events.AccountDebited:
		s.Balance = s.Balance.Sub(evt.Amount)
		lastUpdate := evt.LastUpdate
		s.LastUpdate = &lastUpdate
		return s
	default:
		return s
	}
}
