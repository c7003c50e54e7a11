package commands

import (
	"time"

	"github.com/amirasaad/bank/pkg/money"
)

// CreateAccount opens an account for a customer. The account starts at
// balance 0.00 in CREATED status and self-activates.
type CreateAccount struct {
	ID         string      `json:"id" validate:"required"`
	Balance    money.Money `json:"balance"`
	Creation   time.Time   `json:"creation" validate:"required"`
	CustomerID string      `json:"customerId" validate:"required"`
}

func (c CreateAccount) AggregateID() string { return c.ID }
func (c CreateAccount) CommandType() string { return "account.create" }

// CreditAccount adds amount to the account balance.
type CreditAccount struct {
	ID          string      `json:"id" validate:"required"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description" validate:"required"`
	DateTime    time.Time   `json:"dateTime" validate:"required"`
}

func (c CreditAccount) AggregateID() string { return c.ID }
func (c CreditAccount) CommandType() string { return "account.credit" }

// DebitAccount subtracts amount from the account balance.
type DebitAccount struct {
	ID          string      `json:"id" validate:"required"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description" validate:"required"`
	DateTime    time.Time   `json:"dateTime" validate:"required"`
}

func (c DebitAccount) AggregateID() string { return c.ID }
func (c DebitAccount) CommandType() string { return "account.debit" }

// ActivateAccount transitions the account to ACTIVATED.
type ActivateAccount struct {
	ID       string    `json:"id" validate:"required"`
	DateTime time.Time `json:"dateTime" validate:"required"`
}

func (c ActivateAccount) AggregateID() string { return c.ID }
func (c ActivateAccount) CommandType() string { return "account.activate" }

// SuspendAccount transitions the account to SUSPENDED.
type SuspendAccount struct {
	ID       string    `json:"id" validate:"required"`
	DateTime time.Time `json:"dateTime" validate:"required"`
}

func (c SuspendAccount) AggregateID() string { return c.ID }
func (c SuspendAccount) CommandType() string { return "account.suspend" }
