// Package service exposes the application services the transport adapters
// call: thin orchestration over the command bus (ids, timestamps, dispatch).
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/bank/pkg/commandbus"
	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/idgen"
)

// CustomerInput carries the client-supplied customer attributes.
type CustomerInput struct {
	NIC          string     `json:"nic" validate:"required"`
	Firstname    string     `json:"firstname" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	PlaceOfBirth string     `json:"placeOfBirth" validate:"required"`
	DateOfBirth  time.Time  `json:"dateOfBirth" validate:"required"`
	Nationality  string     `json:"nationality" validate:"required"`
	Sex          domain.Sex `json:"sex" validate:"required,oneof=M F"`
}

// Customer is the customer command service.
type Customer struct {
	bus    commandbus.Bus
	ids    *idgen.Generator
	logger *slog.Logger
	now    func() time.Time
}

// NewCustomer builds the customer service.
func NewCustomer(bus commandbus.Bus, ids *idgen.Generator, logger *slog.Logger) *Customer {
	return &Customer{
		bus:    bus,
		ids:    ids,
		logger: logger.With("service", "customer"),
		now:    time.Now,
	}
}

// Create dispatches a CreateCustomer command with a generated id and returns
// the id.
func (s *Customer) Create(ctx context.Context, in CustomerInput) (string, error) {
	id := s.ids.Generate()
	_, err := s.bus.Dispatch(ctx, commands.CreateCustomer{
		ID:           id,
		NIC:          in.NIC,
		Firstname:    in.Firstname,
		Name:         in.Name,
		PlaceOfBirth: in.PlaceOfBirth,
		DateOfBirth:  in.DateOfBirth,
		Nationality:  in.Nationality,
		Sex:          in.Sex,
		Creation:     s.now(),
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("customer created", "id", id)
	return id, nil
}

// Update dispatches an UpdateCustomer command for id.
func (s *Customer) Update(ctx context.Context, id string, in CustomerInput) error {
	_, err := s.bus.Dispatch(ctx, commands.UpdateCustomer{
		ID:           id,
		NIC:          in.NIC,
		Firstname:    in.Firstname,
		Name:         in.Name,
		PlaceOfBirth: in.PlaceOfBirth,
		DateOfBirth:  in.DateOfBirth,
		Nationality:  in.Nationality,
		Sex:          in.Sex,
		LastUpdate:   s.now(),
	})
	return err
}

// Delete dispatches a DeleteCustomer command for id.
func (s *Customer) Delete(ctx context.Context, id string) error {
	_, err := s.bus.Dispatch(ctx, commands.DeleteCustomer{ID: id})
	return err
}
