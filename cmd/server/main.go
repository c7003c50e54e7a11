package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amirasaad/bank/infra"
	infraevents "github.com/amirasaad/bank/infra/eventstore"
	infrarepo "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/commandbus"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/amirasaad/bank/pkg/idgen"
	"github.com/amirasaad/bank/pkg/metrics"
	"github.com/amirasaad/bank/pkg/projector"
	"github.com/amirasaad/bank/pkg/querybus"
	"github.com/amirasaad/bank/pkg/service"
	"github.com/amirasaad/bank/pkg/sourcing"
	"github.com/amirasaad/bank/webapi"
)

func main() {
	if err := run(); err != nil {
		charmlog.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	store := infraevents.NewGorm(db, cfg.Projection.PollInterval)
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate event store: %w", err)
	}
	if err := infrarepo.Migrate(db); err != nil {
		return fmt.Errorf("migrate read model: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	customers := sourcing.NewRepository(store, sourcing.Aggregate[customer.State]{
		Type:   domain.AggregateCustomer,
		Decide: customer.Decide,
		Evolve: customer.Evolve,
	}, logger)
	accounts := sourcing.NewRepository(store, sourcing.Aggregate[account.State]{
		Type:   domain.AggregateAccount,
		Decide: account.Decide,
		Evolve: account.Evolve,
	}, logger)

	bus := commandbus.New(customers, accounts, logger, m)
	ids := idgen.New()
	uow := infrarepo.NewUoW(db)

	proj := projector.New(store, uow, logger, m)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := proj.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("projector stopped", "error", err)
		}
	}()

	app := webapi.NewApp(webapi.Deps{
		Customers: service.NewCustomer(bus, ids, logger),
		Accounts:  service.NewAccount(bus, ids, logger),
		Queries:   querybus.New(uow, logger),
		Store:     store,
		Logger:    logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}

func newLogger(cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
