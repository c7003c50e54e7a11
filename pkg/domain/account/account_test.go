package account_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/money"
)

var opened = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func replay(evts ...events.Event) account.State {
	state := account.State{}
	for _, e := range evts {
		state = account.Evolve(state, e)
	}
	return state
}

func active(t *testing.T, balance money.Money) account.State {
	t.Helper()
	evts, err := account.Decide(account.State{}, commands.CreateAccount{
		ID:         "A1",
		Creation:   opened,
		CustomerID: "C1",
	})
	require.NoError(t, err)
	state := replay(evts...)
	if !balance.IsZero() {
		state = account.Evolve(state, events.AccountCredited{
			ID:         "A1",
			Amount:     balance,
			LastUpdate: opened,
		})
	}
	return state
}

func TestDecideCreateAutoActivates(t *testing.T) {
	t.Parallel()
	evts, err := account.Decide(account.State{}, commands.CreateAccount{
		ID:         "A1",
		Creation:   opened,
		CustomerID: "C1",
	})
	require.NoError(t, err)
	require.Len(t, evts, 2)

	created, ok := evts[0].(events.AccountCreated)
	require.True(t, ok)
	assert.Equal(t, domain.StatusCreated, created.Status)
	assert.True(t, created.Balance.IsZero())

	activated, ok := evts[1].(events.AccountActivated)
	require.True(t, ok)
	assert.Equal(t, domain.StatusActivated, activated.Status)
	assert.Equal(t, opened, activated.LastUpdate)

	state := replay(evts...)
	assert.Equal(t, domain.StatusActivated, state.Status)
	assert.Equal(t, "C1", state.CustomerID)
}

func TestDecideCreateTwiceFails(t *testing.T) {
	t.Parallel()
	state := active(t, money.Zero())
	_, err := account.Decide(state, commands.CreateAccount{ID: "A1", Creation: opened, CustomerID: "C1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestDecideCredit(t *testing.T) {
	t.Parallel()
	state := active(t, money.Zero())

	evts, err := account.Decide(state, commands.CreditAccount{
		ID:          "A1",
		Amount:      money.FromMinor(5000),
		Description: "deposit",
		DateTime:    opened.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, evts, 1)

	state = account.Evolve(state, evts[0])
	assert.Equal(t, int64(5000), state.Balance.Minor())
}

func TestDecideCreditRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()
	state := active(t, money.Zero())

	for _, amount := range []money.Money{money.Zero(), money.FromMinor(-100)} {
		_, err := account.Decide(state, commands.CreditAccount{
			ID: "A1", Amount: amount, Description: "bad", DateTime: opened,
		})
		assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)
	}
}

func TestDecideDebit(t *testing.T) {
	t.Parallel()
	state := active(t, money.FromMinor(10000))

	evts, err := account.Decide(state, commands.DebitAccount{
		ID:          "A1",
		Amount:      money.FromMinor(4000),
		Description: "withdrawal",
		DateTime:    opened.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, evts, 1)

	state = account.Evolve(state, evts[0])
	assert.Equal(t, int64(6000), state.Balance.Minor())
}

// The guard fires only for a positive balance smaller than the amount. A
// debit against a zero balance passes and is left to the read side to
// refuse.
func TestDebitGuard(t *testing.T) {
	t.Parallel()

	t.Run("positive balance below amount rejects", func(t *testing.T) {
		t.Parallel()
		state := active(t, money.FromMinor(5000))
		_, err := account.Decide(state, commands.DebitAccount{
			ID: "A1", Amount: money.FromMinor(6000), Description: "w", DateTime: opened,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})

	t.Run("zero balance emits", func(t *testing.T) {
		t.Parallel()
		state := active(t, money.Zero())
		evts, err := account.Decide(state, commands.DebitAccount{
			ID: "A1", Amount: money.FromMinor(6000), Description: "w", DateTime: opened,
		})
		require.NoError(t, err)
		require.Len(t, evts, 1)
		state = account.Evolve(state, evts[0])
		assert.Equal(t, int64(-6000), state.Balance.Minor())
	})

	t.Run("balance equal to amount emits", func(t *testing.T) {
		t.Parallel()
		state := active(t, money.FromMinor(5000))
		evts, err := account.Decide(state, commands.DebitAccount{
			ID: "A1", Amount: money.FromMinor(5000), Description: "w", DateTime: opened,
		})
		require.NoError(t, err)
		require.Len(t, evts, 1)
	})
}

func TestDecideOnMissingAccount(t *testing.T) {
	t.Parallel()
	for _, cmd := range []commands.Command{
		commands.CreditAccount{ID: "A9", Amount: money.FromMinor(100), Description: "d", DateTime: opened},
		commands.DebitAccount{ID: "A9", Amount: money.FromMinor(100), Description: "w", DateTime: opened},
		commands.ActivateAccount{ID: "A9", DateTime: opened},
		commands.SuspendAccount{ID: "A9", DateTime: opened},
	} {
		_, err := account.Decide(account.State{}, cmd)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound, cmd.CommandType())
	}
}

func TestSuspendAndReactivate(t *testing.T) {
	t.Parallel()
	state := active(t, money.Zero())
	suspendAt := opened.Add(time.Hour)

	evts, err := account.Decide(state, commands.SuspendAccount{ID: "A1", DateTime: suspendAt})
	require.NoError(t, err)
	state = account.Evolve(state, evts[0])
	assert.Equal(t, domain.StatusSuspended, state.Status)
	require.NotNil(t, state.LastUpdate)
	assert.Equal(t, suspendAt, *state.LastUpdate)

	evts, err = account.Decide(state, commands.ActivateAccount{ID: "A1", DateTime: suspendAt.Add(time.Hour)})
	require.NoError(t, err)
	state = account.Evolve(state, evts[0])
	assert.Equal(t, domain.StatusActivated, state.Status)
}

func TestEvolveIsTotalOverUnknownEvents(t *testing.T) {
	t.Parallel()
	state := active(t, money.FromMinor(100))
	same := account.Evolve(state, events.CustomerDeleted{ID: "C1"})
	assert.Equal(t, state, same)
}
