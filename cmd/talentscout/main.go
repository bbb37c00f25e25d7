// Package main provides the TalentScout hiring assistant CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/talentscout/internal/config"
	"github.com/jonathan/talentscout/internal/observability"
	"github.com/jonathan/talentscout/internal/store"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dataDir    string
	verbose    bool

	// settings is resolved once per invocation in PersistentPreRunE.
	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "talentscout",
	Short: "TalentScout hiring assistant",
	Long: "TalentScout screens technology candidates through a short guided conversation, " +
		"stores their details locally, and offers tools to review, export and match stored candidates.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Record store directory (overrides config and TALENTSCOUT_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadSettings layers flags over the config file over the environment.
func loadSettings(_ *cobra.Command, _ []string) error {
	env := config.FromEnv()

	cfg := config.Config{}
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *fileCfg
	}
	cfg = cfg.MergeWithDefaults(env)

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	settings = cfg
	return nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return observability.NewLogger(cmd.ErrOrStderr(), settings.Verbose)
}

func openStore(cmd *cobra.Command) (*store.FileStore, error) {
	st, err := store.New(settings.DataDir, newLogger(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return st, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
