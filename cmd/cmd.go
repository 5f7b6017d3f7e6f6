// Package cmd defines the command-line interface for finscore.
package cmd

import (
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/iocache"
	"github.com/huangsam/finscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeImportCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("year", contract.DefaultFiscalYear(), "Fiscal year to score (defaults to the last closed year)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print ratio intermediates and report ids")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for scores (1 or 2)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("source-backend", string(schema.SQLiteBackend), "Statement store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("source-db-connect", "", "Database connection string for the statement store")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Metric cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("report-backend", "", "Report tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("report-db-connect", "", "Database connection string for report tracking")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().String("set", string(iocache.ReportMigrations), "Migration set: statements or reports")
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
