package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/iocache"
	"github.com/huangsam/finscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetupWrapper opens the stores without treating positional arguments as tax ids.
func storeSetupWrapper(cmd *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, cmd, nil)
}

// storeCmd focused on store management.
//
// Note: clear and migrate only validate the config and never open a store,
// so they work on a missing or fresh database.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage statements, the metric cache and report tracking",
	Long: `Manage the three stores behind finscore.

- Statement store: yearly financial statements per company (the data source)
- Metric cache: fetched metric rows, valid for 7 days
- Report store: optional history of report and compare runs

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status  - Show statistics and connection info of every store
  clear   - Remove cached rows or report history
  migrate - Run database schema migrations
  import  - Load statements from a CSV file
  export  - Export report history to Parquet

Examples:
  # Load statements and check the stores
  finscore store import statements.csv
  finscore store status`,
}

// storeStatusCmd shows the status of all stores.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.CollectStatus(cacheManager)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the metric cache or the report history.
var storeClearCmd = &cobra.Command{
	Use:   "clear [cache|reports]",
	Short: "Remove cached metric rows or report history",
	Long: `Delete the metric cache (default) or all tracked report runs.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables

Clear the cache after statements were corrected upstream.
Clearing reports cannot be undone. Consider exporting first.

Examples:
  # Clear the metric cache
  finscore store clear

  # Export and clear report history
  finscore store export --output-file backup.parquet
  finscore store clear reports`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"cache", "reports"},
	PreRunE:   configSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		target := "cache"
		if len(args) == 1 {
			target = args[0]
		}
		switch target {
		case "cache":
			if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
				contract.LogFatal("Failed to clear cache", err)
			}
			fmt.Println("Cache cleared successfully.")
		case "reports":
			if err := iocache.ClearReports(cfg.ReportBackend, contract.GetReportDBFilePath(), cfg.ReportDBConnect); err != nil {
				contract.LogFatal("Failed to clear report data", err)
			}
			fmt.Println("Report data cleared successfully.")
		default:
			contract.LogFatal("Failed to clear store", fmt.Errorf("unknown target %q (expected cache or reports)", target))
		}
	},
}

// storeMigrateCmd runs database migrations for the statement or report store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the statement or report store.

By default, migrates the report store to the latest version.
Use --set statements for the statement store and --target-version for specific versions.

Examples:
  # Migrate report tracking to latest version (default)
  finscore store migrate --report-backend sqlite

  # Migrate the statement store on PostgreSQL
  finscore store migrate --set statements --source-backend postgresql --source-db-connect "postgres://..."

  # Rollback to initial state
  finscore store migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		set := iocache.MigrationSet(viper.GetString("set"))
		var (
			backend schema.DatabaseBackend
			connStr string
		)
		switch set {
		case iocache.StatementMigrations:
			backend, connStr = cfg.SourceBackend, cfg.SourceDBConnect
		case iocache.ReportMigrations:
			backend, connStr = cfg.ReportBackend, cfg.ReportDBConnect
		default:
			contract.LogFatal("Failed to run migrations", fmt.Errorf("unknown migration set %q", set))
		}
		summary, err := iocache.MigrateStore(set, backend, connStr, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(summary)
	},
}

// storeImportCmd loads statements from CSV.
var storeImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Load yearly financial statements from a CSV file",
	Long: `Insert or replace statements in the statement store.

The CSV needs a header row with tax_id and fiscal_year plus any of
company_name, revenue, cost_of_goods_sold, net_income, inventory,
accounts_receivable, total_assets, total_equity, current_assets
and current_liabilities. Missing amounts are read as zero.

Cached metric rows are not invalidated. Run "finscore store clear"
afterwards to score the new statements right away.

Examples:
  finscore store import statements.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		store := cacheManager.GetStatementStore()
		if store == nil {
			contract.LogFatal("Failed to import statements", errors.New("no statement store configured. Set --source-backend"))
		}
		file, err := os.Open(args[0])
		if err != nil {
			contract.LogFatal("Failed to open statements file", err)
		}
		defer func() { _ = file.Close() }()

		records, err := iocache.ReadStatementsCSV(file)
		if err != nil {
			contract.LogFatal("Failed to read statements", err)
		}
		n, err := store.ImportStatements(rootCtx, records)
		if err != nil {
			contract.LogFatal("Failed to import statements", err)
		}
		fmt.Printf("Imported %d statement rows into the %s store.\n", n, cfg.SourceBackend)
	},
}

// storeExportCmd exports report history to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report history to Parquet for BI tools and analytics",
	Long: `Export tracked report runs and company scores to Parquet.

Requires: --output-file parameter and a configured --report-backend

Examples:
  finscore store export --report-backend sqlite --output-file finscore.parquet
  duckdb -c "SELECT * FROM read_parquet('finscore.parquet.company_scores.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		summary, err := iocache.ExecuteReportExport(cacheManager.GetReportStore(), cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Failed to export report data", err)
		}
		iocache.PrintExportSummary(os.Stdout, summary)
	},
}
