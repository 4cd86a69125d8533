package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scavenger/screenshot-scavenger/internal/config"
)

// cfgFile holds the path to the config file specified by the user.
var cfgFile string

// logLevel and logFormat control the logrus setup in initLogging.
var logLevel string
var logFormat string

// workersFlag overrides config.Workers when >= 0.
var workersFlag int

// savePathFlag overrides config.SavePath when non-empty.
var savePathFlag string

// globalConfig holds the loaded configuration, populated in loadGlobalConfig.
var globalConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "scavenger-cli",
	Short: "A screenshot reconnaissance and flagging pipeline",
	Long: `scavenger-cli drives the scavenging pipeline: it pulls screenshots from
a configured source, OCRs them, flags sensitive content, and persists
matches to CSV, images, and a searchable index.`,
	PersistentPreRunE: loadGlobalConfig,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Logging format (text, json)")

	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", -1, "Downloader worker count (overrides config, -1 uses config default)")
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))

	rootCmd.PersistentFlags().StringVar(&savePathFlag, "save-path", "", "Directory to save flagged images and results (overrides config)")
	viper.BindPFlag("savepath", rootCmd.PersistentFlags().Lookup("save-path"))
}

// loadGlobalConfig loads config.toml via Viper (flags/env take precedence),
// unmarshals it into globalConfig, and configures logrus.
func loadGlobalConfig(cmd *cobra.Command, args []string) error {
	initLogging()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	globalConfig = config.Defaults()

	// Unchanged --workers/--save-path flags fall back to these rather than to
	// their own sentinel defaults (-1, "").
	viper.SetDefault("workers", globalConfig.Workers)
	viper.SetDefault("savepath", globalConfig.SavePath)

	if err := viper.ReadInConfig(); err == nil {
		log.Infof("using configuration file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Warn("config file not found, using defaults and flags")
	} else {
		log.WithError(err).Warnf("error reading config file: %s", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		log.WithError(err).Warn("error unmarshalling configuration, proceeding with defaults")
	}

	return nil
}

func initLogging() {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithError(err).Warnf("invalid log level %q, using info", logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch logFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		log.Warnf("invalid log format %q, using text", logFormat)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
