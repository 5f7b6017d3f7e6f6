package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/iocache"
	"github.com/huangsam/finscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "finscore",
	Short: "Score the financial sustainability of companies.",
	Long: `Finscore turns financial statements into metric scores, six dimension scores,
an overall 0-100 score and a tier, and compares two companies with recommendations.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	viper.SetEnvPrefix("FINSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("year", contract.DefaultFiscalYear())
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("source-backend", schema.SQLiteBackend)
	viper.SetDefault("source-db-connect", "")
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("report-backend", "")
	viper.SetDefault("report-db-connect", "")
}

func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".finscore")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfig merges defaults, config file, env and flags, then validates them into cfg.
// Positional arguments are tax ids.
func loadConfig(args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.TaxIDs = append([]string(nil), args...)

	// 4. Run all validation and complex parsing.
	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetup validates the config and opens the configured stores.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := loadConfig(args); err != nil {
		return err
	}
	if err := iocache.InitStores(iocache.StoreOptionsFromConfig(cfg)); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper validates the config without opening any store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadConfig(nil)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
