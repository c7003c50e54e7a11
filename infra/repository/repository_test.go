package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	infra "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/money"
	repo "github.com/amirasaad/bank/pkg/repository"
)

var opened = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func newUoW(t *testing.T) *infra.UoW {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "read.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return infra.NewUoW(db)
}

func johnDoe(id, nic string) dto.Customer {
	return dto.Customer{
		ID:           id,
		NIC:          nic,
		Firstname:    "John",
		Name:         "Doe",
		PlaceOfBirth: "Libreville",
		DateOfBirth:  opened.AddDate(-30, 0, 0),
		Nationality:  "Gabon",
		Sex:          domain.SexMale,
		Creation:     opened,
	}
}

func TestCustomerCRUD(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()
	customers, err := uow.Customers()
	require.NoError(t, err)

	require.NoError(t, customers.Create(ctx, johnDoe("C1", "NIC-1")))

	row, err := customers.Get(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "NIC-1", row.NIC)
	assert.Nil(t, row.LastUpdate)

	byNIC, err := customers.GetByNIC(ctx, "NIC-1")
	require.NoError(t, err)
	require.NotNil(t, byNIC)
	assert.Equal(t, "C1", byNIC.ID)

	updatedAt := opened.Add(time.Hour)
	updated := johnDoe("C1", "NIC-2")
	updated.Firstname = "Jane"
	updated.LastUpdate = &updatedAt
	require.NoError(t, customers.Update(ctx, updated))

	row, err = customers.Get(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "NIC-2", row.NIC)
	assert.Equal(t, "Jane", row.Firstname)
	require.NotNil(t, row.LastUpdate)

	require.NoError(t, customers.Delete(ctx, "C1"))
	row, err = customers.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCustomerUpdateMissingRow(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	customers, err := uow.Customers()
	require.NoError(t, err)

	err = customers.Update(context.Background(), johnDoe("absent", "NIC-9"))
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerNICIsUnique(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	customers, err := uow.Customers()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, customers.Create(ctx, johnDoe("C1", "NIC-1")))
	err = customers.Create(ctx, johnDoe("C2", "NIC-1"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOneAccountPerCustomer(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()
	accounts, err := uow.Accounts()
	require.NoError(t, err)

	require.NoError(t, accounts.Create(ctx, dto.Account{
		ID: "A1", Balance: money.Zero(), Status: domain.StatusActivated,
		Creation: opened, CustomerID: "C1",
	}))
	err = accounts.Create(ctx, dto.Account{
		ID: "A2", Balance: money.Zero(), Status: domain.StatusActivated,
		Creation: opened, CustomerID: "C1",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAccountUpdateAndLookup(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()
	accounts, err := uow.Accounts()
	require.NoError(t, err)

	require.NoError(t, accounts.Create(ctx, dto.Account{
		ID: "A1", Balance: money.FromMinor(1000), Status: domain.StatusActivated,
		Creation: opened, CustomerID: "C1",
	}))

	updatedAt := opened.Add(time.Hour)
	require.NoError(t, accounts.Update(ctx, "A1", repo.AccountUpdate{
		Balance:    money.FromMinor(2500),
		Status:     domain.StatusSuspended,
		LastUpdate: updatedAt,
	}))

	row, err := accounts.GetByCustomer(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(2500), row.Balance.Minor())
	assert.Equal(t, domain.StatusSuspended, row.Status)

	err = accounts.Update(ctx, "absent", repo.AccountUpdate{Balance: money.Zero(), Status: domain.StatusActivated, LastUpdate: updatedAt})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestOperationJournal(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()
	operations, err := uow.Operations()
	require.NoError(t, err)

	for i, op := range []dto.Operation{
		{ID: "OP-1", Type: domain.OperationCredit, Amount: money.FromMinor(100), AccountID: "A1", Description: "d1"},
		{ID: "OP-2", Type: domain.OperationDebit, Amount: money.FromMinor(200), AccountID: "A1", Description: "d2"},
		{ID: "OP-3", Type: domain.OperationCredit, Amount: money.FromMinor(300), AccountID: "A2", Description: "d3"},
	} {
		op.DateTime = opened.Add(time.Duration(i) * time.Minute)
		require.NoError(t, operations.Create(ctx, op))
	}

	rows, total, err := operations.ListByAccount(ctx, "A1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "OP-2", rows[0].ID) // newest first
	assert.Equal(t, "OP-1", rows[1].ID)

	row, err := operations.Get(ctx, "OP-3")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "A2", row.AccountID)

	require.NoError(t, operations.DeleteByAccount(ctx, "A1"))
	_, total, err = operations.ListByAccount(ctx, "A1", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCheckpointUpsert(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()
	checkpoints, err := uow.Checkpoints()
	require.NoError(t, err)

	offset, err := checkpoints.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, offset)

	require.NoError(t, checkpoints.Set(ctx, "p1", 5))
	require.NoError(t, checkpoints.Set(ctx, "p1", 9))

	offset, err = checkpoints.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), offset)

	other, err := checkpoints.Get(ctx, "p2")
	require.NoError(t, err)
	assert.Zero(t, other)
}

// A failing unit of work must leave neither the row change nor the
// checkpoint advance behind.
func TestDoRollsBackTogether(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.Do(ctx, func(tx repo.UnitOfWork) error {
		customers, err := tx.Customers()
		require.NoError(t, err)
		if err := customers.Create(ctx, johnDoe("C1", "NIC-1")); err != nil {
			return err
		}
		checkpoints, err := tx.Checkpoints()
		require.NoError(t, err)
		if err := checkpoints.Set(ctx, "p1", 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	customers, err := uow.Customers()
	require.NoError(t, err)
	row, err := customers.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Nil(t, row)

	checkpoints, err := uow.Checkpoints()
	require.NoError(t, err)
	offset, err := checkpoints.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, offset)
}

func TestDoCommitsTogether(t *testing.T) {
	t.Parallel()
	uow := newUoW(t)
	ctx := context.Background()

	err := uow.Do(ctx, func(tx repo.UnitOfWork) error {
		customers, err := tx.Customers()
		if err != nil {
			return err
		}
		if err := customers.Create(ctx, johnDoe("C1", "NIC-1")); err != nil {
			return err
		}
		checkpoints, err := tx.Checkpoints()
		if err != nil {
			return err
		}
		return checkpoints.Set(ctx, "p1", 1)
	})
	require.NoError(t, err)

	customers, err := uow.Customers()
	require.NoError(t, err)
	row, err := customers.Get(ctx, "C1")
	require.NoError(t, err)
	assert.NotNil(t, row)

	checkpoints, err := uow.Checkpoints()
	require.NoError(t, err)
	offset, err := checkpoints.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), offset)
}
