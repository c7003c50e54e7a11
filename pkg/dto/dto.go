// Package dto holds the read-side data transfer objects returned by query
// handlers. Rows are flat: foreign keys, never object graphs.
package dto

import (
	"time"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/money"
)

// Customer mirrors one customer row of the read model.
type Customer struct {
	ID           string     `json:"id"`
	NIC          string     `json:"nic"`
	Firstname    string     `json:"firstname"`
	Name         string     `json:"name"`
	PlaceOfBirth string     `json:"placeOfBirth"`
	DateOfBirth  time.Time  `json:"dateOfBirth"`
	Nationality  string     `json:"nationality"`
	Sex          domain.Sex `json:"sex"`
	Creation     time.Time  `json:"creation"`
	LastUpdate   *time.Time `json:"lastUpdate,omitempty"`
}

// Account mirrors one account row of the read model.
type Account struct {
	ID         string               `json:"id"`
	Balance    money.Money          `json:"balance"`
	Status     domain.AccountStatus `json:"status"`
	Creation   time.Time            `json:"creation"`
	LastUpdate *time.Time           `json:"lastUpdate,omitempty"`
	CustomerID string               `json:"customerId"`
}

// Operation is one journal entry on an account.
type Operation struct {
	ID          string               `json:"id"`
	Type        domain.OperationType `json:"type"`
	Amount      money.Money          `json:"amount"`
	DateTime    time.Time            `json:"dateTime"`
	Description string               `json:"description"`
	AccountID   string               `json:"accountId"`
}

// CustomerPage is one page of a customer search.
type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalPages int        `json:"totalPages"`
}

// OperationPage is one page of an account's operation journal.
type OperationPage struct {
	Operations []Operation `json:"operations"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	TotalPages int         `json:"totalPages"`
}
