package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/synctank/internal/config"
	"github.com/fakeyudi/synctank/internal/settings"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "synctank",
	Short: "Quick-capture notes and files from anywhere, synced to your tank",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// triggerPath resolves the hotkey trigger file: configured path, else the
// data-dir default that external hotkey daemons are pointed at.
func triggerPath() (string, error) {
	if cfg.TriggerPath != "" {
		return cfg.TriggerPath, nil
	}
	dir, err := settings.DataDir()
	if err != nil {
		return "", fmt.Errorf("resolving trigger path: %w", err)
	}
	return filepath.Join(dir, "trigger"), nil
}
