package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ghuser/itemservice/pkg/config"
	"github.com/ghuser/itemservice/pkg/database"
	"github.com/ghuser/itemservice/pkg/logger"
	"github.com/ghuser/itemservice/pkg/migrator"
)

type rootOptions struct {
	DatabaseURL string
	LogLevel    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the item store schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "store URL (defaults to DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(ctx context.Context, cmd *cobra.Command, m *migrator.Migrator) error {
				applied, err := m.Up(ctx)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
					return nil
				}
				for _, v := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %05d\n", v)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recently applied migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(ctx context.Context, cmd *cobra.Command, m *migrator.Migrator) error {
				v, err := m.Down(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %05d\n", v)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(ctx context.Context, cmd *cobra.Command, m *migrator.Migrator) error {
				st, err := m.Status(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSTATE\tFILE")
				for _, s := range st {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(tw, "%05d\t%s\t%s\n", s.Version, state, s.Path)
				}
				return tw.Flush()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(ctx context.Context, cmd *cobra.Command, m *migrator.Migrator) error {
				v, err := m.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", v)
				return nil
			}),
		},
	)

	return cmd
}

// withMigrator opens the store for the duration of one subcommand.
func withMigrator(
	opts *rootOptions,
	run func(context.Context, *cobra.Command, *migrator.Migrator) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		url := opts.DatabaseURL
		if url == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			url = cfg.DatabaseURL
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		log := logger.NewWithWriter(cmd.ErrOrStderr(), opts.LogLevel)

		db, err := database.NewPool(ctx, url, log)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck

		m, err := migrator.New(db)
		if err != nil {
			return err
		}
		return run(ctx, cmd, m)
	}
}
