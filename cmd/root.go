/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/identity"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/reliefline/sos-inbox/internal/version"
	"github.com/spf13/cobra"
)

var ownerFlag string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "sos-inbox",
	Short:         "Live notification inbox for emergency response teams.",
	Long:          `Live notification inbox for emergency response teams.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Setup()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

// Setup loads configuration and starts file logging. A logging failure is
// reported but does not stop the command.
func Setup() error {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("file logging disabled:", err.Error())
	}
	return nil
}

// Identity returns the signed-in viewer: --owner, then owner_id.
func Identity() identity.Provider {
	return identity.FromConfig(ownerFlag)
}

// RequireOwner returns the viewer's owner id or pipeline.ErrAuthRequired.
func RequireOwner() (string, error) {
	owner, ok := Identity().Owner()
	if !ok {
		return "", fmt.Errorf("%w: pass --owner or set owner_id", pipeline.ErrAuthRequired)
	}
	return owner, nil
}

func init() {
	// Set version for use in help output
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "Owner id of the signed-in viewer (overrides owner_id)")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return
		}
		printHelpText(cmd, cmd.OutOrStdout())
	})
}

var commandOrder = []string{
	"add",
	"list",
	"mark-read",
	"mark-unread",
	"mark-all-read",
	"status",
	"follow",
	"tui",
	"version",
}

func printHelpText(cmd *cobra.Command, w io.Writer) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-20s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`sos-inbox v%s

Live notification inbox for emergency response teams.

USAGE:
    sos-inbox [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --owner <id>    Owner id of the signed-in viewer
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	_, _ = fmt.Fprint(w, helpText)
}
