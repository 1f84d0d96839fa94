/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"context"
	"fmt"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/format"
	"github.com/reliefline/sos-inbox/internal/formatter"
	"github.com/spf13/cobra"
)

type statusClient interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.Notification, error)
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	var (
		template    string
		preset      string
		listPresets bool
	)
	presets := formatter.NewPresetRegistry()
	engine := formatter.NewTemplateEngine()

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show unread counts by type",
		Long: `Show how many notifications of the signed-in owner are unread, by type.

With --template or --preset a single line is printed instead, suitable for
status bars. Templates use ${variable} placeholders:

    unread-count, total-count, read-count
    info-count, warning-count, error-count, success-count
    latest-title, latest-message, latest-city
    has-unread, highest-type, highest-severity

USAGE:
    sos-inbox status [OPTIONS]

OPTIONS:
    --template TEXT      Render TEXT with the variables above
    --preset NAME        Render a named preset (see --list-presets)
    --list-presets       List the available presets
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if listPresets {
				for _, p := range presets.List() {
					fmt.Fprintf(out, "%-12s %s\n    %s\n", p.Name, p.Description, p.Template)
				}
				return nil
			}
			if template != "" && preset != "" {
				return fmt.Errorf("status: --template and --preset are mutually exclusive")
			}
			if preset != "" {
				p, err := presets.Get(preset)
				if err != nil {
					return fmt.Errorf("status: %w", err)
				}
				template = p.Template
			}
			if err := engine.Validate(template); err != nil {
				return fmt.Errorf("status: %w", err)
			}

			owner, err := cmd.RequireOwner()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			notifs, err := client.ListByOwner(c.Context(), owner)
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			if template == "" {
				return format.WriteStatus(out, format.Summarize(owner, notifs))
			}
			line, err := engine.Substitute(template, formatter.BuildContext(notifs))
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			_, err = fmt.Fprintln(out, line)
			return err
		},
	}

	statusCmd.Flags().StringVar(&template, "template", "", "Render a one-line template")
	statusCmd.Flags().StringVar(&preset, "preset", "", "Render a named template preset")
	statusCmd.Flags().BoolVar(&listPresets, "list-presets", false, "List template presets")

	return statusCmd
}

// statusCmd represents the status command
var statusCmd = NewStatusCmd(inboxClient)

func init() {
	cmd.RootCmd.AddCommand(statusCmd)
}
