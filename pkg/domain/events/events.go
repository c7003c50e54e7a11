// Package events declares the persisted domain events of the ledger.
//
// Event payloads are part of the storage contract: renaming a field or a
// type string is a breaking change against every previously appended log.
package events

import (
	"time"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/money"
)

// Event is implemented by every domain event.
type Event interface {
	// Type is the stable string discriminator stored on the event record.
	Type() string
	// AggregateID is the id of the aggregate the event belongs to.
	AggregateID() string
	// AggregateType discriminates the owning aggregate kind.
	AggregateType() string
}

// Event type discriminators. Persisted; never renumber or rename.
const (
	TypeCustomerCreated  = "customer.created"
	TypeCustomerUpdated  = "customer.updated"
	TypeCustomerDeleted  = "customer.deleted"
	TypeAccountCreated   = "account.created"
	TypeAccountActivated = "account.activated"
	TypeAccountSuspended = "account.suspended"
	TypeAccountCredited  = "account.credited"
	TypeAccountDebited   = "account.debited"
)

// CustomerCreated records the creation of a customer.
type CustomerCreated struct {
	ID           string     `json:"id"`
	NIC          string     `json:"nic"`
	Firstname    string     `json:"firstname"`
	Name         string     `json:"name"`
	PlaceOfBirth string     `json:"placeOfBirth"`
	DateOfBirth  time.Time  `json:"dateOfBirth"`
	Nationality  string     `json:"nationality"`
	Sex          domain.Sex `json:"sex"`
	Creation     time.Time  `json:"creation"`
}

func (e CustomerCreated) Type() string          { return TypeCustomerCreated }
func (e CustomerCreated) AggregateID() string   { return e.ID }
func (e CustomerCreated) AggregateType() string { return domain.AggregateCustomer }

// CustomerUpdated records a full update of a customer's attributes.
type CustomerUpdated struct {
	ID           string     `json:"id"`
	NIC          string     `json:"nic"`
	Firstname    string     `json:"firstname"`
	Name         string     `json:"name"`
	PlaceOfBirth string     `json:"placeOfBirth"`
	DateOfBirth  time.Time  `json:"dateOfBirth"`
	Nationality  string     `json:"nationality"`
	Sex          domain.Sex `json:"sex"`
	LastUpdate   time.Time  `json:"lastUpdate"`
}

func (e CustomerUpdated) Type() string          { return TypeCustomerUpdated }
func (e CustomerUpdated) AggregateID() string   { return e.ID }
func (e CustomerUpdated) AggregateType() string { return domain.AggregateCustomer }

// CustomerDeleted records the deletion of a customer.
type CustomerDeleted struct {
	ID string `json:"id"`
}

func (e CustomerDeleted) Type() string          { return TypeCustomerDeleted }
func (e CustomerDeleted) AggregateID() string   { return e.ID }
func (e CustomerDeleted) AggregateType() string { return domain.AggregateCustomer }

// AccountCreated records the opening of an account for a customer.
type AccountCreated struct {
	ID         string               `json:"id"`
	Balance    money.Money          `json:"balance"`
	Status     domain.AccountStatus `json:"status"`
	Creation   time.Time            `json:"creation"`
	CustomerID string               `json:"customerId"`
}

func (e AccountCreated) Type() string          { return TypeAccountCreated }
func (e AccountCreated) AggregateID() string   { return e.ID }
func (e AccountCreated) AggregateType() string { return domain.AggregateAccount }

// AccountActivated records a status transition to ACTIVATED.
type AccountActivated struct {
	ID         string               `json:"id"`
	Status     domain.AccountStatus `json:"status"`
	LastUpdate time.Time            `json:"lastUpdate"`
}

func (e AccountActivated) Type() string          { return TypeAccountActivated }
func (e AccountActivated) AggregateID() string   { return e.ID }
func (e AccountActivated) AggregateType() string { return domain.AggregateAccount }

// AccountSuspended records a status transition to SUSPENDED.
type AccountSuspended struct {
	ID         string               `json:"id"`
	Status     domain.AccountStatus `json:"status"`
	LastUpdate time.Time            `json:"lastUpdate"`
}

func (e AccountSuspended) Type() string          { return TypeAccountSuspended }
func (e AccountSuspended) AggregateID() string   { return e.ID }
func (e AccountSuspended) AggregateType() string { return domain.AggregateAccount }

// AccountCredited records a credit applied to an account.
type AccountCredited struct {
	ID          string      `json:"id"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description"`
	LastUpdate  time.Time   `json:"lastUpdate"`
}

func (e AccountCredited) Type() string          { return TypeAccountCredited }
func (e AccountCredited) AggregateID() string   { return e.ID }
func (e AccountCredited) AggregateType() string { return domain.AggregateAccount }

// AccountDebited records a debit applied to an account.
type AccountDebited struct {
	ID          string      `json:"id"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description"`
	LastUpdate  time.Time   `json:"lastUpdate"`
}

func (e AccountDebited) Type() string          { return TypeAccountDebited }
func (e AccountDebited) AggregateID() string   { return e.ID }
func (e AccountDebited) AggregateType() string { return domain.AggregateAccount }
