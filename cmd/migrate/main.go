// Command migrate manages the tax_records schema. The connection string comes
// from --dsn, then VAULT_DB_DSN, then the server's database configuration.
package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/filevault/internal/config"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "VAULT_DB_DSN"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dsn string

	open := func() (*migrate.Migrate, error) {
		resolved, err := resolveDSN(dsn)
		if err != nil {
			return nil, err
		}
		return newMigrator(resolved)
	}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the vault database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database connection string")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(open, func(m *migrate.Migrate) error {
					return report(cmd.OutOrStdout(), ignoreNoChange(m.Up()), "schema is up to date")
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every applied migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(open, func(m *migrate.Migrate) error {
					return report(cmd.OutOrStdout(), ignoreNoChange(m.Down()), "schema reverted")
				})
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations, or revert them when n is negative",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				if n == 0 {
					return errors.New("steps must be non-zero")
				}
				return withMigrator(open, func(m *migrate.Migrate) error {
					return report(cmd.OutOrStdout(), ignoreNoChange(m.Steps(n)), fmt.Sprintf("moved %d steps", n))
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(open, func(m *migrate.Migrate) error {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
						return nil
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark the schema as being at version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				return withMigrator(open, func(m *migrate.Migrate) error {
					return report(cmd.OutOrStdout(), m.Force(v), fmt.Sprintf("forced version %d", v))
				})
			},
		},
	)

	return root
}

// resolveDSN applies flag, then environment, then config file precedence.
func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(envDSN); env != "" {
		return env, nil
	}
	db, err := config.LoadDatabase()
	if err != nil {
		return "", fmt.Errorf("resolve database config: %w", err)
	}
	return db.URL(), nil
}

func newMigrator(dsn string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return m, nil
}

func withMigrator(open func() (*migrate.Migrate, error), fn func(*migrate.Migrate) error) error {
	m, err := open()
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func report(w io.Writer, err error, done string) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(w, done)
	return nil
}

func parseVersion(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return n, nil
}
