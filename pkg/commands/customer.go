package commands

import (
	"time"

	"github.com/amirasaad/bank/pkg/domain"
)

// CreateCustomer opens a new customer aggregate.
type CreateCustomer struct {
	ID           string     `json:"id" validate:"required"`
	NIC          string     `json:"nic" validate:"required"`
	Firstname    string     `json:"firstname" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	PlaceOfBirth string     `json:"placeOfBirth" validate:"required"`
	DateOfBirth  time.Time  `json:"dateOfBirth" validate:"required"`
	Nationality  string     `json:"nationality" validate:"required"`
	Sex          domain.Sex `json:"sex" validate:"required,oneof=M F"`
	Creation     time.Time  `json:"creation" validate:"required"`
}

func (c CreateCustomer) AggregateID() string { return c.ID }
func (c CreateCustomer) CommandType() string { return "customer.create" }

// UpdateCustomer replaces the mutable attributes of an existing customer.
type UpdateCustomer struct {
	ID           string     `json:"id" validate:"required"`
	NIC          string     `json:"nic" validate:"required"`
	Firstname    string     `json:"firstname" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	PlaceOfBirth string     `json:"placeOfBirth" validate:"required"`
	DateOfBirth  time.Time  `json:"dateOfBirth" validate:"required"`
	Nationality  string     `json:"nationality" validate:"required"`
	Sex          domain.Sex `json:"sex" validate:"required,oneof=M F"`
	LastUpdate   time.Time  `json:"lastUpdate" validate:"required"`
}

func (c UpdateCustomer) AggregateID() string { return c.ID }
func (c UpdateCustomer) CommandType() string { return "customer.update" }

// DeleteCustomer removes a customer. Further commands on the id are rejected.
type DeleteCustomer struct {
	ID string `json:"id" validate:"required"`
}

func (c DeleteCustomer) AggregateID() string { return c.ID }
func (c DeleteCustomer) CommandType() string { return "customer.delete" }
