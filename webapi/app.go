// Package webapi is the HTTP adapter over the command and query core. It is
// deliberately thin: parse, validate, call a service or the query bus, map
// errors. The core never imports this package.
package webapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirasaad/bank/pkg/eventstore"
	"github.com/amirasaad/bank/pkg/querybus"
	"github.com/amirasaad/bank/pkg/service"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Customers *service.Customer
	Accounts  *service.Account
	Queries   *querybus.Bus
	Store     eventstore.Store
	Logger    *slog.Logger
}

// NewApp builds the Fiber application with all routes and middleware.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", "internal", err.Error())
		},
	})

	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bank ledger is up")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	CustomerCommandRoutes(app, deps)
	AccountCommandRoutes(app, deps)
	CustomerQueryRoutes(app, deps)
	AccountQueryRoutes(app, deps)
	EventStoreRoutes(app, deps)

	return app
}
