package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadRunsBackend reads and validates the run history backend settings.
func loadRunsBackend() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseRunsBackend(viper.GetString("runs-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("runs-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	return nil
}

// runsSetup loads minimal configuration needed for run history operations.
// This is used by commands that need the run store without full shared setup.
func runsSetup() error {
	if err := loadRunsBackend(); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	cfg.OutputFile = viper.GetString("output-file")

	if err := iocache.InitStores(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetupWrapper loads the backend without opening the run store,
// so migrations can run against a fresh database.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadRunsBackend()
}

// runsDBFilePath names the SQLite file that holds run history.
func runsDBFilePath() string {
	if cfg.RunsDBConnect != "" {
		return cfg.RunsDBConnect
	}
	return contract.GetRunsDBFilePath()
}

// runsCmd focused on run history management.
//
// Note: runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by build and query.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of build runs",
	Long: `Manage the history recorded by 'gradestat build'.

When enabled, every build stores:
- Run metadata (timestamp, input path, configuration, duration)
- Row and group counts of the pipeline
- Every course summary it published

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export run history to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check run history status
  gradestat runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  gradestat runs export --runs-backend sqlite --output-file history`,
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, run counts, timestamps and table sizes of the run history.

Examples:
  gradestat runs status --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics",
	Long: `Export all stored run history to Parquet format.

Exports two datasets:
- <output-file>.runs.parquet - one row per build run
- <output-file>.course_results.parquet - every course summary published by each run

Requires: --output-file parameter

Examples:
  gradestat runs export --runs-backend sqlite --output-file history
  duckdb -c "SELECT code, gpa FROM read_parquet('history.course_results.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all stored runs and the course summaries they published.

For SQLite the database file is removed. For MySQL and PostgreSQL the run tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  gradestat runs export --runs-backend sqlite --output-file backup
  gradestat runs clear --runs-backend sqlite`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunsBackend, runsDBFilePath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gradestat runs migrate --runs-backend sqlite

  # Migrate to specific version
  gradestat runs migrate --runs-backend sqlite --target-version 2

  # Rollback to initial state
  gradestat runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
