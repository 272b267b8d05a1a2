package main

import (
	"fmt"
	"os"

	"campaign-studio-backend/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Applies the embedded SQL migrations that have not yet been recorded in schema_migrations, each inside its own transaction.",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migrateList        bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "List embedded migrations without connecting")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if migrateList {
		names, err := database.Migrations()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	dbURL := firstNonEmpty(migrateDatabaseURL, os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return fmt.Errorf("database URL required: set --database-url flag or DATABASE_URL environment variable")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	migrator, err := database.NewMigrator(dbURL, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	applied, err := migrator.Run(cmd.Context())
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "No pending migrations")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintf(out, "Applied %s\n", name)
	}
	return nil
}
