package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"sheetdiff/adapters/postgres"
	"sheetdiff/adapters/postgres/migrations"
	"sheetdiff/domain/run"
	"sheetdiff/internal/config"
)

func main() {
	var envFile, databaseURL string

	rootCmd := &cobra.Command{
		Use:           "sheetdiff-migrate",
		Short:         "Manage the run history schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (overrides DATABASE_URL)")

	connect := func(ctx context.Context) (*sqlx.DB, error) {
		if err := config.LoadEnv(envFile); err != nil {
			return nil, err
		}
		url := databaseURL
		if url == "" {
			url = os.Getenv("DATABASE_URL")
		}
		if url == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
		db, err := sqlx.ConnectContext(ctx, "postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()

				applied, err := migrations.NewMigrator(db.DB).Up(cmd.Context())
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				}
				for _, v := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", v)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()

				version, err := migrations.NewMigrator(db.DB).Down(cmd.Context())
				if err == migrations.ErrNothingToRollback {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %s\n", version)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()

				statuses, err := migrations.NewMigrator(db.DB).Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s\n", s.Version, s.Name, state)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "import DIR",
			Short: "Import run records written by 'sheetdiff compare --json'",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()

				return importRuns(cmd, postgres.NewRunRepository(db), args[0])
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func importRuns(cmd *cobra.Command, repo *postgres.RunRepository, dir string) error {
	files, err := findRunFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to find run files: %w", err)
	}

	imported, skipped := 0, 0
	for _, file := range files {
		record, err := loadRunFromFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s: %v\n", file, err)
			skipped++
			continue
		}
		if err := repo.Save(cmd.Context(), record); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to save run %s: %v\n", record.ID, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Import complete: %d imported, %d skipped\n", imported, skipped)
	return nil
}

func findRunFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func loadRunFromFile(path string) (*run.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record run.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, fmt.Errorf("not a run record")
	}
	return &record, nil
}
