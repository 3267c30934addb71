// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/doatroca/troca/internal/mockapi"
	"github.com/doatroca/troca/internal/platform/config"
)

// serveCmd runs the stub backend.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stub backend for development",
	Long: `Run a local in-memory backend speaking one of the two wire dialects:

  bearer     integer IDs, bare list responses, {access_token} login payloads
  simplejwt  UUID IDs, {count,results} lists, {access,refresh} login payloads

The store is seeded with a demo account (demo@demo.com / demo123) and the
standard categories. Nothing survives a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dialect := mockapi.Dialect(cfg.ServeDialect)
	switch dialect {
	case mockapi.DialectBearer, mockapi.DialectSimpleJWT:
	default:
		return fmt.Errorf("unknown serve dialect %q", cfg.ServeDialect)
	}

	server := mockapi.NewServer(mockapi.Options{
		Dialect: dialect,
		Secret:  cfg.ServeSecret,
		Logger:  log,
		Seed:    true,
	})

	addr := net.JoinHostPort("", cfg.ServePort)
	log.Info("stub_backend_starting",
		"addr", addr,
		"dialect", string(dialect),
	)
	return server.ListenAndServe(cmd.Context(), addr)
}
