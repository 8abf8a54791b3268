package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/clubs/modules/clubs"
	"github.com/iota-uz/clubs/pkg/application"
	"github.com/iota-uz/clubs/pkg/composables"
	"github.com/iota-uz/clubs/pkg/configuration"
	"github.com/iota-uz/clubs/pkg/eventbus"
)

type cliEnv struct {
	conf *configuration.Configuration
	pool *pgxpool.Pool
	app  application.Application
}

// openEnv connects to the configured database and loads the clubs module the same way the server does.
func openEnv(ctx context.Context) (*cliEnv, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("connect db: %w", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, withCode(exitDB, fmt.Errorf("ping db: %w", err))
	}

	logger := conf.Logger()
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := application.LoadModules(app, clubs.NewModule(clubs.OptionsFromConfig(conf))); err != nil {
		pool.Close()
		return nil, fmt.Errorf("load clubs module: %w", err)
	}
	return &cliEnv{conf: conf, pool: pool, app: app}, nil
}

func (e *cliEnv) Context(ctx context.Context) context.Context {
	return composables.WithPool(ctx, e.pool)
}

func (e *cliEnv) Close() {
	e.pool.Close()
	e.conf.Unload()
}
