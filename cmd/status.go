package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/synctank/internal/hotkey"
	"github.com/fakeyudi/synctank/internal/settings"
	syncclient "github.com/fakeyudi/synctank/internal/sync"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and remote store reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("Endpoint: %s\n", cfg.Endpoint)

		trigger, err := triggerPath()
		if err != nil {
			return err
		}
		cmd.Printf("Trigger file: %s\n", trigger)

		combo := hotkey.Default
		store, err := settings.NewStore()
		if err == nil {
			if s, err := store.Load(); err == nil && s.Hotkey != nil {
				combo = hotkey.FromBinding(s.Hotkey)
			} else if err != nil && !errors.Is(err, settings.ErrNoSettings) {
				cmd.Printf("Settings: unreadable (%v)\n", err)
			}
		}
		cmd.Printf("Hotkey: %s\n", combo)

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		items, err := syncclient.NewClient(cfg.Endpoint).FetchAll(ctx)
		if err != nil {
			cmd.Printf("Remote store: unreachable (%v)\n", err)
			return nil
		}
		cmd.Printf("Remote store: ok, %d items\n", len(items))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
