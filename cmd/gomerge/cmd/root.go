package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

const defaultConfigFile = "gomerge.yaml"

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	mergeMode string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "gomerge",
	Short: "Change-tracking dataset merger",
	Long: `A CLI tool for reconciling a working copy of relational data that holds
local edits with a fresh snapshot of the same tables.

Features:
  - Four merge modes: replace, refresh_if_no_changes,
    refresh_preserving_local_changes and post_save
  - Row identity by primary key, key overrides or client correlation keys
  - Parent-first table ordering from declared relations
  - Relation integrity validation (orphans, deleted parents)
  - Schema snapshots read from MySQL information_schema`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file (defaults apply when the default file is absent)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Merge overrides
	rootCmd.PersistentFlags().StringVarP(&mergeMode, "mode", "m", "",
		"Override merge mode (replace, refresh_if_no_changes, refresh_preserving_local_changes, post_save)")

	// Output
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored report output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	Mode      string
	LogLevel  string
	LogFormat string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		Mode:      mergeMode,
		LogLevel:  logLevel,
		LogFormat: logFormat,
	}
}
