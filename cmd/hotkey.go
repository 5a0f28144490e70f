package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/hotkey"
	"github.com/fakeyudi/synctank/internal/settings"
)

var hotkeyCmd = &cobra.Command{
	Use:   "hotkey",
	Short: "Show the capture hotkey",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewStore()
		if err != nil {
			return err
		}
		combo := hotkey.Default
		s, err := store.Load()
		if err != nil && !errors.Is(err, settings.ErrNoSettings) {
			return err
		}
		if s != nil && s.Hotkey != nil {
			combo = hotkey.FromBinding(s.Hotkey)
		}
		cmd.Printf("Current hotkey: %s\n", combo)
		trigger, err := triggerPath()
		if err != nil {
			return err
		}
		cmd.Printf("Trigger file: %s\n", trigger)
		return nil
	},
}

var hotkeySetCmd = &cobra.Command{
	Use:   "set <combo>",
	Short: "Change the capture hotkey (e.g. alt+l, ctrl+shift+space)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		combo, err := hotkey.ParseCombo(args[0])
		if err != nil {
			// The previous combination stays authoritative.
			return fmt.Errorf("unsupported key, try again: %w", err)
		}

		store, err := settings.NewStore()
		if err != nil {
			return err
		}
		listener := hotkey.NewListener(store, bus.New(), &hotkey.ChanSource{C: make(chan struct{})})
		if err := listener.Update(combo, func() {}); err != nil {
			return err
		}

		cmd.Printf("Hotkey saved: %s\n", combo)
		cmd.Println("Point your hotkey daemon at the trigger file to finish the binding.")
		return nil
	},
}

func init() {
	hotkeyCmd.AddCommand(hotkeySetCmd)
	rootCmd.AddCommand(hotkeyCmd)
}
