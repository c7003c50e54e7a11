package webapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	infraes "github.com/amirasaad/bank/infra/eventstore"
	infrarepo "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/commandbus"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/amirasaad/bank/pkg/idgen"
	"github.com/amirasaad/bank/pkg/projector"
	"github.com/amirasaad/bank/pkg/querybus"
	"github.com/amirasaad/bank/pkg/service"
	"github.com/amirasaad/bank/pkg/sourcing"
	"github.com/amirasaad/bank/webapi"
)

// newTestApp wires the full stack: memory event store, sqlite read model,
// command bus, projector and the HTTP surface.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "read.db")+"?_busy_timeout=5000"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infrarepo.Migrate(db))
	uow := infrarepo.NewUoW(db)
	store := infraes.NewMemory()

	customers := sourcing.NewRepository(store, sourcing.Aggregate[customer.State]{
		Type: domain.AggregateCustomer, Decide: customer.Decide, Evolve: customer.Evolve,
	}, logger)
	accounts := sourcing.NewRepository(store, sourcing.Aggregate[account.State]{
		Type: domain.AggregateAccount, Decide: account.Decide, Evolve: account.Evolve,
	}, logger)
	bus := commandbus.New(customers, accounts, logger, nil)
	ids := idgen.New()

	p := projector.New(store, uow, logger, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.Run(ctx) //nolint:errcheck // stops with ctx at test end

	return webapi.NewApp(webapi.Deps{
		Customers: service.NewCustomer(bus, ids, logger),
		Accounts:  service.NewAccount(bus, ids, logger),
		Queries:   querybus.New(uow, logger),
		Store:     store,
		Logger:    logger,
	})
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func customerBody(nic string) fiber.Map {
	return fiber.Map{
		"nic":          nic,
		"firstname":    "John",
		"name":         "Doe",
		"placeOfBirth": "Libreville",
		"dateOfBirth":  "1990-01-01T00:00:00Z",
		"nationality":  "Gabon",
		"sex":          "M",
	}
}

func createCustomer(t *testing.T, app *fiber.App, nic string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/commands/customers/create", customerBody(nic))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	id, _ := body["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func createAccount(t *testing.T, app *fiber.App, customerID string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/commands/accounts/create", fiber.Map{"customerId": customerID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	id, _ := body["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// waitProjected polls a query endpoint until the read model has the row.
func waitProjected(t *testing.T, app *fiber.App, target string) map[string]any {
	t.Helper()
	var body map[string]any
	require.Eventually(t, func() bool {
		resp := doJSON(t, app, http.MethodGet, target, nil)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return false
		}
		body = decodeBody(t, resp)
		return body["data"] != nil
	}, 5*time.Second, 20*time.Millisecond)
	return body
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCustomerLifecycle(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	id := createCustomer(t, app, "NIC-1")
	body := waitProjected(t, app, "/queries/customers/get/"+id)
	row := body["data"].(map[string]any)
	assert.Equal(t, "NIC-1", row["nic"])
	assert.Equal(t, "John", row["firstname"])

	resp := doJSON(t, app, http.MethodPut, "/commands/customers/update/"+id, fiber.Map{
		"nic":          "NIC-1",
		"firstname":    "Jane",
		"name":         "Doe",
		"placeOfBirth": "Libreville",
		"dateOfBirth":  "1990-01-01T00:00:00Z",
		"nationality":  "Gabon",
		"sex":          "F",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	require.Eventually(t, func() bool {
		resp := doJSON(t, app, http.MethodGet, "/queries/customers/get/"+id, nil)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return false
		}
		body := decodeBody(t, resp)
		return body["data"].(map[string]any)["firstname"] == "Jane"
	}, 5*time.Second, 20*time.Millisecond)

	resp = doJSON(t, app, http.MethodDelete, "/commands/customers/delete/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func TestCustomerNotFoundIs404(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/queries/customers/get/absent", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	body := decodeBody(t, resp)
	assert.Equal(t, "customer_not_found", body["kind"])
}

func TestInvalidBodyIs400(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/commands/customers/create", fiber.Map{"nic": "only-nic"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "validation", body["kind"])
}

func TestAccountCreditAndDebit(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	customerID := createCustomer(t, app, "NIC-1")
	accountID := createAccount(t, app, customerID)

	resp := doJSON(t, app, http.MethodPost, "/commands/accounts/credit/"+accountID, fiber.Map{
		"amount": "150.00", "description": "deposit",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = doJSON(t, app, http.MethodPost, "/commands/accounts/debit/"+accountID, fiber.Map{
		"amount": "40.50", "description": "withdrawal",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	require.Eventually(t, func() bool {
		resp := doJSON(t, app, http.MethodGet, "/queries/accounts/get/"+accountID, nil)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return false
		}
		body := decodeBody(t, resp)
		data, _ := body["data"].(map[string]any)
		return data != nil && data["balance"] == "109.50"
	}, 5*time.Second, 20*time.Millisecond)

	body := waitProjected(t, app, "/queries/accounts/operations/"+accountID)
	page := body["data"].(map[string]any)
	operations := page["operations"].([]any)
	assert.Len(t, operations, 2)
}

func TestDebitBeyondBalanceIs422(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	customerID := createCustomer(t, app, "NIC-1")
	accountID := createAccount(t, app, customerID)

	resp := doJSON(t, app, http.MethodPost, "/commands/accounts/credit/"+accountID, fiber.Map{
		"amount": "10.00", "description": "deposit",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = doJSON(t, app, http.MethodPost, "/commands/accounts/debit/"+accountID, fiber.Map{
		"amount": "20.00", "description": "withdrawal",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "insufficient_balance", body["kind"])
}

func TestTransferRejectsSameAccount(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/commands/accounts/transfer", fiber.Map{
		"from": "A1", "to": "A1", "amount": "10.00", "description": "loop",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "validation", body["kind"])
}

func TestTransferMovesMoney(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	fromCustomer := createCustomer(t, app, "NIC-1")
	toCustomer := createCustomer(t, app, "NIC-2")
	from := createAccount(t, app, fromCustomer)
	to := createAccount(t, app, toCustomer)

	resp := doJSON(t, app, http.MethodPost, "/commands/accounts/credit/"+from, fiber.Map{
		"amount": "100.00", "description": "seed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = doJSON(t, app, http.MethodPost, "/commands/accounts/transfer", fiber.Map{
		"from": from, "to": to, "amount": "25.00", "description": "rent",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	require.Eventually(t, func() bool {
		resp := doJSON(t, app, http.MethodGet, "/queries/accounts/get/"+to, nil)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return false
		}
		body := decodeBody(t, resp)
		data, _ := body["data"].(map[string]any)
		return data != nil && data["balance"] == "25.00"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestInvalidAmountIs400(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/commands/accounts/credit/A1", fiber.Map{
		"amount": "12.345", "description": "too many decimals",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "bad_request", body["kind"])
}

func TestEventStreamEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	customerID := createCustomer(t, app, "NIC-1")
	accountID := createAccount(t, app, customerID)

	resp := doJSON(t, app, http.MethodGet, "/events/store/get/"+accountID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	records := body["data"].([]any)
	require.Len(t, records, 2)
	first := records[0].(map[string]any)
	assert.Equal(t, "account.created", first["type"])
	assert.EqualValues(t, 0, first["sequence"])
}
