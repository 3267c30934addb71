// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

// Command troca is the command-line client for the Troca donation and
// exchange marketplace.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the configured session state store (file, memory, redis, postgres).
//  4. Wire the session manager, REST client and catalog service.
//  5. Dispatch the requested subcommand.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doatroca/troca/internal/platform/constants"
)

var (
	// Global flags
	debugFlag bool

	// Logger, initialized in PersistentPreRun before any command body runs.
	log *slog.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:     constants.AppName,
	Version: constants.AppVersion,
	Short:   "Troca - donation and exchange marketplace client",
	Long: `Troca is the command-line client for the Troca marketplace.

It talks to a Troca-compatible backend (TROCA_API_URL), keeps the signed-in
session in a pluggable state store (TROCA_STATE_BACKEND: file, memory, redis
or postgres) and exposes the catalog of donated and exchanged items.

A session only counts as signed-in once both the token grant and the profile
fetch succeed; anything less is discarded on the next command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugFlag {
			level = slog.LevelDebug
		}
		raw := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		log = raw.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
	},
}

func main() {
	// Shut down cleanly on Ctrl-C; long-running commands (serve) stop, and
	// in-flight requests are cancelled through the shared context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
