/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/hooks"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/settings"
	"github.com/reliefline/sos-inbox/internal/tui/state"
	"github.com/spf13/cobra"
)

// runProgram runs the screen until it quits. Can be changed for testing.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client pipelineClient) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive notifications screen",
		Long: `Open the interactive notifications screen.

New notifications slide in as alerts, one at a time. Press enter to open
the alert's resource, x to close it.

KEY BINDINGS:
    j/k, ↑/↓      Move the cursor
    enter          Open the alert, or the selected notification
    x              Close the alert
    r              Toggle read on the selected notification
    R              Mark all as read
    g              Group by none, city, type
    /              Search; enter applies, esc clears
    esc            Back to the list, or clear the search
    q, ctrl+c      Quit

USAGE:
    sos-inbox tui

OPTIONS:
    -h, --help      Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			prefs, err := settings.Load(settings.Path())
			if err != nil {
				colors.Warning(fmt.Sprintf("using default screen settings: %v", err))
			}

			runner := hooks.FromConfig(logging.GetGlobal())
			defer runner.Wait()

			opts := pipelineOptions(client)
			opts.OnToast = toastHook(runner)
			model := state.NewModel(c.Context(), opts)
			defer model.Close()
			model.SetGroupBy(domain.GroupByMode(prefs.GroupBy))
			model.SetSearchProvider(prefs.Provider())

			if err := runProgram(model); err != nil {
				return fmt.Errorf("tui: %w", err)
			}

			prefs.GroupBy = string(model.GroupBy())
			if err := settings.Save(settings.Path(), prefs); err != nil {
				colors.Warning(fmt.Sprintf("unable to save screen settings: %v", err))
			}
			return nil
		},
	}
}

// tuiCmd represents the tui command
var tuiCmd = NewTUICmd(inboxClient)

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
}
