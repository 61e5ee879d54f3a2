package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/config"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string

	// cfgFile is the explicit config file path, when given
	cfgFile string

	// cfg is the resolved application configuration shared by all commands
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moldiq",
	Short: "A workflow orchestrator for injection molding production planning",
	Long: `MoldIQ runs configurable planning workflows defined in YAML:
ingesting purchase orders, validating them against mold specifications,
projecting machine capacity and lead times, and publishing a consolidated
dashboard. Module outputs are persisted in a shared dataset store so
workflows can build on earlier runs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set the global log level based on the flag
		logLevel := utils.LogLevelFromString(verbosityLevel)
		utils.SetLogLevel(logLevel)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := config.Defaults()

	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to config file (default: moldiq.yaml in . or ./configs)")
	rootCmd.PersistentFlags().String("workflows-dir", defaults.WorkflowsDir,
		"Directory scanned for workflow definitions")
	rootCmd.PersistentFlags().String("store", defaults.StorePath,
		"Path to the SQLite dataset store")
	rootCmd.PersistentFlags().String("registry", defaults.RegistryFile,
		"Path to the module registry table")
	rootCmd.PersistentFlags().String("summary-dir", defaults.SummaryDir,
		"Directory where run summaries are written")

	_ = viper.BindPFlag("workflows_dir", rootCmd.PersistentFlags().Lookup("workflows-dir"))
	_ = viper.BindPFlag("store_path", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("registry_file", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("summary_dir", rootCmd.PersistentFlags().Lookup("summary-dir"))
}

// initConfig resolves the configuration: defaults, then the config file,
// then MOLDIQ_* environment variables, then command-line flags.
func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("workflows_dir", defaults.WorkflowsDir)
	viper.SetDefault("registry_file", defaults.RegistryFile)
	viper.SetDefault("store_path", defaults.StorePath)
	viper.SetDefault("summary_dir", defaults.SummaryDir)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("moldiq")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("configs")
	}

	viper.SetEnvPrefix("moldiq")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file anywhere: bootstrap one so the next run has
			// something to edit. If the write fails, defaults still apply.
			defaultPath := filepath.Join("configs", "moldiq.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		} else {
			utils.LogWarning("Failed to read config file: %v", err)
		}
	} else {
		utils.LogDebug("Using config file: %s", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		utils.LogError("Failed to parse configuration: %v", err)
		os.Exit(1)
	}
}
