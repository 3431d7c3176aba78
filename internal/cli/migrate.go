package cli

import (
	"errors"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donalcheung/dine-together-sub000/internal/config"
	"github.com/donalcheung/dine-together-sub000/internal/database"
)

var errMemoryStorage = errors.New("migrations need STORAGE_DRIVER=postgres")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error {
					if err := m.Up(cmd.Context()); err != nil {
						return err
					}
					v, err := m.Version(cmd.Context())
					if err != nil {
						return err
					}
					PrintSuccess(cmd.OutOrStdout(), "schema at version %d", v)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error {
					if err := m.Down(cmd.Context()); err != nil {
						return err
					}
					PrintSuccess(cmd.OutOrStdout(), "rolled back one migration")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error {
					statuses, err := m.Status(cmd.Context())
					if err != nil {
						return err
					}
					return printMigrationStatus(cmd, statuses)
				})
			},
		},
	)
	return cmd
}

func printMigrationStatus(cmd *cobra.Command, statuses []database.MigrationStatus) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	plain(w, "VERSION\tSTATE\tFILE\n")
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		plain(w, "%d\t%s\t%s\n", s.Version, state, s.Path)
	}
	return w.Flush()
}

func withMigrator(cmd *cobra.Command, fn func(m *database.Migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.StorageDriver == config.StorageDriverMemory {
		return errMemoryStorage
	}

	pool, err := database.NewPool(cmd.Context(), cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:        2,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := database.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}
