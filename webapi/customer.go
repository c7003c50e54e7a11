package webapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amirasaad/bank/pkg/queries"
	"github.com/amirasaad/bank/pkg/service"
)

// CustomerCommandRoutes registers the customer write endpoints.
func CustomerCommandRoutes(app *fiber.App, deps Deps) {
	group := app.Group("/commands/customers")

	group.Post("/create", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[service.CustomerInput](c)
		if err != nil {
			return nil
		}
		id, err := deps.Customers.Create(c.Context(), *input)
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "customer created", fiber.Map{"id": id})
	})

	group.Put("/update/:id", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[service.CustomerInput](c)
		if err != nil {
			return nil
		}
		if err := deps.Customers.Update(c.Context(), c.Params("id"), *input); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "customer updated", fiber.Map{"id": c.Params("id")})
	})

	group.Delete("/delete/:id", func(c *fiber.Ctx) error {
		if err := deps.Customers.Delete(c.Context(), c.Params("id")); err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "customer deleted", fiber.Map{"id": c.Params("id")})
	})
}

// CustomerQueryRoutes registers the customer read endpoints.
func CustomerQueryRoutes(app *fiber.App, deps Deps) {
	group := app.Group("/queries/customers")

	group.Get("/get/:id", func(c *fiber.Ctx) error {
		row, err := deps.Queries.GetCustomerByID(c.Context(), queries.GetCustomerByID{ID: c.Params("id")})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "customer found", row)
	})

	group.Get("/list", func(c *fiber.Ctx) error {
		rows, err := deps.Queries.GetAllCustomers(c.Context(), queries.GetAllCustomers{})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "customers found", rows)
	})

	group.Get("/search", func(c *fiber.Ctx) error {
		page, err := deps.Queries.SearchCustomers(c.Context(), queries.SearchCustomers{
			Keyword: c.Query("keyword"),
			Page:    c.QueryInt("page", 0),
			Size:    c.QueryInt("size", 10),
		})
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "customers found", page)
	})
}
