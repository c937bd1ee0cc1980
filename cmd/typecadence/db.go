package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typecadence/internal/store"
)

var migrateTarget int

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
		RunE:  runMigrateCmd,
	}
	migrateCmd.Flags().IntVar(&migrateTarget, "target", -1, "schema version to migrate to (-1 = latest, 0 = roll back all)")
	cmd.AddCommand(migrateCmd)
	return cmd
}

func runMigrateCmd(_ *cobra.Command, _ []string) error {
	backend, err := store.ParseBackend(cfg.Store.Backend)
	if err != nil {
		return err
	}
	if backend == store.SQLiteBackend {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DSN), 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	result, err := store.Migrate(backend, cfg.Store.DSN, migrateTarget)
	if err != nil {
		return err
	}
	if !result.Changed {
		fmt.Printf("%s schema already at version %d\n", backend, result.To)
		return nil
	}
	fmt.Printf("%s schema migrated from version %d to %d\n", backend, result.From, result.To)
	return nil
}
