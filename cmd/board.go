package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/synctank/internal/attach"
	"github.com/fakeyudi/synctank/internal/board"
	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/hotkey"
	"github.com/fakeyudi/synctank/internal/settings"
	"github.com/fakeyudi/synctank/internal/surface"
	syncclient "github.com/fakeyudi/synctank/internal/sync"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the dashboard and listen for the capture hotkey",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewStore()
		if err != nil {
			return err
		}
		trigger, err := triggerPath()
		if err != nil {
			return err
		}

		b := bus.New()
		client := syncclient.NewClient(cfg.Endpoint)
		norm := &attach.Normalizer{TempDir: cfg.TempDir}

		var opts []surface.Option
		if !cfg.KeepOpenOnBlur {
			opts = append(opts, surface.AutoHide())
		}
		sf := surface.New(b, client, norm, opts...)

		listener := hotkey.NewListener(store, b, &hotkey.FileSource{Path: trigger})

		m := board.New(b, client, sf, hotkey.Default.String())
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())

		// The hotkey fires at any time regardless of focus; deliver it into
		// the UI goroutine so all session mutation stays single-threaded.
		if err := listener.RegisterSavedOrDefault(func() {
			p.Send(surface.TriggerMsg{})
		}); err != nil {
			// Non-fatal: the dashboard still works, captures just need the
			// in-app key.
			fmt.Fprintf(cmd.ErrOrStderr(), "hotkey registration failed: %v\n", err)
		} else {
			b.PublishHotkeyChanged(bus.HotkeyChanged{Combo: listener.Current().String()})
		}
		defer listener.Unregister()

		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
