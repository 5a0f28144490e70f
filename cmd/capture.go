package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/synctank/internal/attach"
	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/surface"
	syncclient "github.com/fakeyudi/synctank/internal/sync"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Open the capture surface once, without the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("capture needs an interactive terminal")
		}

		b := bus.New()
		client := syncclient.NewClient(cfg.Endpoint)
		norm := &attach.Normalizer{TempDir: cfg.TempDir}

		sf := surface.New(b, client, norm, surface.Standalone())
		results := b.SaveResults()
		submissions := b.Submissions()

		p := tea.NewProgram(surface.Runner{Surface: sf}, tea.WithReportFocus())
		if _, err := p.Run(); err != nil {
			return err
		}

		// The surface never waits on the network; the process does, briefly,
		// so a submitted capture is not torn down mid-save. A dismissed or
		// force-quit session has nothing in flight.
		select {
		case <-submissions:
		default:
			return nil
		}
		select {
		case r := <-results:
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "save failed, item may not sync: %v\n", r.Err)
				return nil
			}
			cmd.Println("Sent.")
		case <-time.After(30 * time.Second):
			fmt.Fprintln(cmd.ErrOrStderr(), "save still in flight, giving up waiting")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
}
