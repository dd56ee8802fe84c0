package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/iocache"
	"github.com/huangsam/forecast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfigSetup loads the backend settings without opening the store.
// Clear and migrate use it so they can operate on a missing or outdated database.
func historyConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := strings.ToLower(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads the backend settings and opens the history store.
func historySetup() error {
	if err := historyConfigSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyConfigSetupWrapper wraps historyConfigSetup for commands that must not open the store.
func historyConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyConfigSetup()
}

// sqliteFilePath returns the SQLite database file in use.
func sqliteFilePath() string {
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focuses on run history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup. They need no scenario and no simulation flags.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded simulation runs and exports",
	Long: `Manage the history of simulation runs.

When --history-backend is set, forecast records every run and time-to-target
search, storing:
- Run metadata (timestamps, scenario, item, simulated window, configuration)
- The full trajectory of each run

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  forecast run savings.yaml --history-backend sqlite

  # Check what was recorded
  forecast history status --history-backend sqlite`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about recorded runs.

Displays:
- Backend type and connection status
- Total number of runs and samples stored
- Last and oldest run timestamps
- Database table sizes`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("run history is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet format for use with analytics tools.

Exports two datasets next to --output-file:
- <file>.runs.parquet    - metadata about each run
- <file>.samples.parquet - every recorded trajectory sample

Requires: --output-file parameter

Examples:
  # Export all data
  forecast history export --history-backend sqlite --output-file history

  # Use with DuckDB
  duckdb -c "SELECT item_name, max(final_value) FROM read_parquet('history.runs.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all stored runs and their trajectories.

For SQLite the database file is removed. For MySQL and PostgreSQL the history
tables are dropped and recreated on the next run.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  forecast history export --history-backend sqlite --output-file backup
  forecast history clear --history-backend sqlite`,
	PreRunE: historyConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqliteFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  forecast history migrate --history-backend postgresql --history-db-connect "$PG_DSN"

  # Rollback to the initial state
  forecast history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend {
			connStr = sqliteFilePath()
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
