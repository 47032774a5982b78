// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/paygate/credentials/cmd/app/commands"
	"github.com/paygate/credentials/internal/app"
	"github.com/paygate/credentials/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Credential lifecycle and request authentication service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-admin-credential",
				Usage: "Issue a new admin credential for an internal service",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "service-name",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Internal service identifier (e.g., billing)",
					},
					&cli.StringFlag{
						Name:    "endpoints",
						Aliases: []string{"e"},
						Usage:   "Comma-separated allowed endpoint patterns (omit for the default)",
					},
					&cli.IntFlag{
						Name:    "rate-limit",
						Aliases: []string{"r"},
						Value:   0,
						Usage:   "Requests per second (0 uses the service default)",
					},
					&cli.StringFlag{
						Name:    "actor",
						Aliases: []string{"a"},
						Usage:   "Audit actor attribution (defaults to SYSTEM)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						lifecycle, err := container.LifecycleUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize lifecycle use case: %w", err)
						}
						return commands.RunCreateAdminCredential(
							ctx,
							lifecycle,
							logger,
							cmd.String("service-name"),
							cmd.String("endpoints"),
							int(cmd.Int("rate-limit")),
							cmd.String("actor"),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "rotate-admin-credential",
				Usage: "Replace the secret of the active admin credential for a service",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "service-name",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Internal service identifier (e.g., billing)",
					},
					&cli.StringFlag{
						Name:    "actor",
						Aliases: []string{"a"},
						Usage:   "Audit actor attribution (defaults to SYSTEM)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						lifecycle, err := container.LifecycleUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize lifecycle use case: %w", err)
						}
						return commands.RunRotateAdminCredential(
							ctx,
							lifecycle,
							logger,
							cmd.String("service-name"),
							cmd.String("actor"),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "revoke-admin-credential",
				Usage: "Revoke the active admin credential for a service",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "service-name",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Internal service identifier (e.g., billing)",
					},
					&cli.StringFlag{
						Name:    "actor",
						Aliases: []string{"a"},
						Usage:   "Audit actor attribution (defaults to SYSTEM)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						lifecycle, err := container.LifecycleUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize lifecycle use case: %w", err)
						}
						return commands.RunRevokeAdminCredential(
							ctx,
							lifecycle,
							logger,
							cmd.String("service-name"),
							cmd.String("actor"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "clean-audit-entries",
				Usage: "Delete audit entries older than the specified number of days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete audit entries older than this many days",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						audit, err := container.AuditUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize audit use case: %w", err)
						}
						return commands.RunCleanAuditEntries(
							ctx,
							audit,
							logger,
							int(cmd.Int("days")),
							commands.DefaultIO(),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withContainer builds the DI container around a command and guarantees
// resource cleanup afterwards.
func withContainer(fn func(container *app.Container, logger *slog.Logger) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	return fn(container, logger)
}
