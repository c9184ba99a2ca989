package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/Gkemhcs/socialbridge-backend/internal/db"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/spf13/cobra"
)

// newRootCmd builds the server CLI. Running it without a subcommand serves the API.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "OAuth broker for social providers",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API until SIGINT or SIGTERM, then drain in-flight requests.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := utils.New(cfg)

			conn, err := db.InitDB(cmd.Context(), logger, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			return db.Migrate(cmd.Context(), conn, logger)
		},
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := utils.New(cfg)

	ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.WithField("error", err.Error()).Error("failed to initialise server")
		return err
	}
	defer app.Close()

	return app.server.Start(ctx)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
