// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package main

import (
	"context"
	"fmt"

	"github.com/doatroca/troca/internal/catalog"
	"github.com/doatroca/troca/internal/platform/config"
	pgstore "github.com/doatroca/troca/internal/platform/postgres"
	redisstore "github.com/doatroca/troca/internal/platform/redis"
	"github.com/doatroca/troca/internal/rest"
	"github.com/doatroca/troca/internal/session"
)

// app bundles the wired components a command needs. Construction is explicit
// and per-invocation: a CLI process serves exactly one command.
type app struct {
	cfg     *config.Config
	manager *session.Manager
	catalog *catalog.Service

	// closers release backend connections (redis client, pg pool).
	closers []func()
}

// newApp loads configuration and wires the state store, session manager,
// REST client and catalog service.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	application := &app{cfg: cfg}

	store, err := application.openStateStore(ctx, cfg)
	if err != nil {
		application.close()
		return nil, err
	}

	manager := session.NewManager(store, log)
	client, err := rest.NewClient(rest.Options{
		BaseURL: cfg.APIBaseURL,
		Tokens:  manager,
		Logger:  log,
	})
	if err != nil {
		application.close()
		return nil, err
	}
	manager.Bind(client)

	application.manager = manager
	application.catalog = catalog.NewService(client, log)
	return application, nil
}

// openStateStore opens the session store selected by TROCA_STATE_BACKEND.
func (application *app) openStateStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.StateBackend {

	case config.BackendFile:
		path, err := cfg.ResolveStateFile()
		if err != nil {
			return nil, err
		}
		return session.NewFileStore(path), nil

	case config.BackendMemory:
		return session.NewMemoryStore(), nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		application.closers = append(application.closers, func() { _ = client.Close() })
		return session.NewRedisStore(client), nil

	case config.BackendPostgres:
		if err := session.ApplySchema(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		application.closers = append(application.closers, pool.Close)
		return session.NewPostgresStore(pool), nil
	}

	// config.Load already validated the backend name.
	return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

func (application *app) close() {
	for _, closer := range application.closers {
		closer()
	}
}

// requireSession restores the persisted session and fails the command when
// no valid session exists.
func (application *app) requireSession(ctx context.Context) (*session.Session, error) {
	restored := application.manager.Restore(ctx)
	if restored == nil {
		return nil, fmt.Errorf("not signed in: run '%s login' first", rootCmd.Use)
	}
	return restored, nil
}
