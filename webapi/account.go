package webapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amirasaad/bank/pkg/money"
	"github.com/amirasaad/bank/pkg/queries"
)

// CreateAccountRequest opens an account for a customer.
type CreateAccountRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
}

// AmountRequest carries a credit or debit.
type AmountRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// TransferRequest moves an amount between two accounts.
type TransferRequest struct {
	From        string `json:"from" validate:"required"`
	To          string `json:"to" validate:"required,nefield=From"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

// AccountCommandRoutes registers the account write endpoints.
func AccountCommandRoutes(app *fiber.App, deps Deps) {
	group := app.Group("/commands/accounts")

	group.Post("/create", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateAccountRequest](c)
		if err != nil {
			return nil
		}
		id, err := deps.Accounts.Create(c.Context(), input.CustomerID)
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "account created", fiber.Map{"id": id})
	})

	group.Post("/credit/:id", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[AmountRequest](c)
		if err != nil {
			return nil
		}
		amount, err := money.Parse(input.Amount)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid amount", "bad_request", err.Error())
		}
		if err := deps.Accounts.Credit(c.Context(), c.Params("id"), amount, input.Description); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "account credited", fiber.Map{"id": c.Params("id")})
	})

	group.Post("/debit/:id", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[AmountRequest](c)
		if err != nil {
			return nil
		}
		amount, err := money.Parse(input.Amount)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid amount", "bad_request", err.Error())
		}
		if err := deps.Accounts.Debit(c.Context(), c.Params("id"), amount, input.Description); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "account debited", fiber.Map{"id": c.Params("id")})
	})

	group.Put("/activate/:id", func(c *fiber.Ctx) error {
		if err := deps.Accounts.Activate(c.Context(), c.Params("id")); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "account activated", fiber.Map{"id": c.Params("id")})
	})

	group.Put("/suspend/:id", func(c *fiber.Ctx) error {
		if err := deps.Accounts.Suspend(c.Context(), c.Params("id")); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "account suspended", fiber.Map{"id": c.Params("id")})
	})

	group.Post("/transfer", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[TransferRequest](c)
		if err != nil {
			return nil
		}
		amount, err := money.Parse(input.Amount)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid amount", "bad_request", err.Error())
		}
		if err := deps.Accounts.Transfer(c.Context(), input.From, input.To, amount, input.Description); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "transfer completed", fiber.Map{
			"from": input.From, "to": input.To, "amount": input.Amount,
		})
	})
}

// AccountQueryRoutes registers the account read endpoints.
func AccountQueryRoutes(app *fiber.App, deps Deps) {
	group := app.Group("/queries/accounts")

	group.Get("/get/:id", func(c *fiber.Ctx) error {
		row, err := deps.Queries.GetAccountByID(c.Context(), queries.GetAccountByID{ID: c.Params("id")})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "account found", row)
	})

	group.Get("/of-customer/:customerId", func(c *fiber.Ctx) error {
		row, err := deps.Queries.GetAccountByCustomerID(c.Context(), queries.GetAccountByCustomerID{
			CustomerID: c.Params("customerId"),
		})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "account found", row)
	})

	group.Get("/list", func(c *fiber.Ctx) error {
		rows, err := deps.Queries.GetAllAccounts(c.Context(), queries.GetAllAccounts{})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "accounts found", rows)
	})

	group.Get("/operations/:accountId", func(c *fiber.Ctx) error {
		page, err := deps.Queries.GetOperationsByAccountID(c.Context(), queries.GetOperationsByAccountID{
			AccountID: c.Params("accountId"),
			Page:      c.QueryInt("page", 0),
			Size:      c.QueryInt("size", 10),
		})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "operations found", page)
	})

	group.Get("/operation/:id", func(c *fiber.Ctx) error {
		row, err := deps.Queries.GetOperationByID(c.Context(), queries.GetOperationByID{ID: c.Params("id")})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "operation found", row)
	})
}
