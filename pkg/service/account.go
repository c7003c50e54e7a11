package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bank/pkg/commandbus"
	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/idgen"
	"github.com/amirasaad/bank/pkg/money"
)

// Account is the account command service.
type Account struct {
	bus    commandbus.Bus
	ids    *idgen.Generator
	logger *slog.Logger
	now    func() time.Time
}

// NewAccount builds the account service.
func NewAccount(bus commandbus.Bus, ids *idgen.Generator, logger *slog.Logger) *Account {
	return &Account{
		bus:    bus,
		ids:    ids,
		logger: logger.With("service", "account"),
		now:    time.Now,
	}
}

// Create opens an account for customerID with a generated id and returns
// the id. The account starts at 0.00 and self-activates.
func (s *Account) Create(ctx context.Context, customerID string) (string, error) {
	id := s.ids.Generate()
	_, err := s.bus.Dispatch(ctx, commands.CreateAccount{
		ID:         id,
		Balance:    money.Zero(),
		Creation:   s.now(),
		CustomerID: customerID,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("account created", "id", id, "customer", customerID)
	return id, nil
}

// Credit adds amount to the account.
func (s *Account) Credit(ctx context.Context, id string, amount money.Money, description string) error {
	_, err := s.bus.Dispatch(ctx, commands.CreditAccount{
		ID:          id,
		Amount:      amount,
		Description: description,
		DateTime:    s.now(),
	})
	return err
}

// Debit subtracts amount from the account.
func (s *Account) Debit(ctx context.Context, id string, amount money.Money, description string) error {
	_, err := s.bus.Dispatch(ctx, commands.DebitAccount{
		ID:          id,
		Amount:      amount,
		Description: description,
		DateTime:    s.now(),
	})
	return err
}

// Activate transitions the account to ACTIVATED.
func (s *Account) Activate(ctx context.Context, id string) error {
	_, err := s.bus.Dispatch(ctx, commands.ActivateAccount{ID: id, DateTime: s.now()})
	return err
}

// Suspend transitions the account to SUSPENDED.
func (s *Account) Suspend(ctx context.Context, id string) error {
	_, err := s.bus.Dispatch(ctx, commands.SuspendAccount{ID: id, DateTime: s.now()})
	return err
}

// Transfer debits from and credits to as two independent commands. The pair
// is NOT atomic across the two aggregates: when the credit fails after a
// durable debit, a compensating credit refunds the source account and the
// transfer is reported as failed. If the refund itself fails, both errors
// are returned and the operator must reconcile from the log.
func (s *Account) Transfer(ctx context.Context, from, to string, amount money.Money, description string) error {
	if err := s.Debit(ctx, from, amount, fmt.Sprintf("transfer to %s: %s", to, description)); err != nil {
		return fmt.Errorf("transfer debit: %w", err)
	}
	creditErr := s.Credit(ctx, to, amount, fmt.Sprintf("transfer from %s: %s", from, description))
	if creditErr == nil {
		s.logger.Info("transfer completed", "from", from, "to", to, "amount", amount)
		return nil
	}
	s.logger.Warn("transfer credit failed, refunding source",
		"from", from, "to", to, "amount", amount, "error", creditErr)
	if refundErr := s.Credit(ctx, from, amount, fmt.Sprintf("refund of failed transfer to %s", to)); refundErr != nil {
		s.logger.Error("transfer refund failed, manual reconciliation required",
			"from", from, "to", to, "amount", amount, "error", refundErr)
		return errors.Join(
			fmt.Errorf("transfer credit: %w", creditErr),
			fmt.Errorf("transfer refund: %w", refundErr),
		)
	}
	return fmt.Errorf("transfer credit: %w", creditErr)
}
