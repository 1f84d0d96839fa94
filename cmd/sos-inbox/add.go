/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/hooks"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/spf13/cobra"
)

type addClient interface {
	Add(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

// NewAddCmd creates the add command with explicit dependencies.
func NewAddCmd(client addClient) *cobra.Command {
	if client == nil {
		panic("NewAddCmd: client dependency cannot be nil")
	}

	var (
		title, message, typ   string
		resource, request     string
		city, id, to, docPath string
	)

	addCmd := &cobra.Command{
		Use:   "add [message]",
		Short: "Add a notification for an owner",
		Long: `Add a notification for an owner.

USAGE:
    sos-inbox add [OPTIONS] [message]

OPTIONS:
    --title <text>       Title shown in bold
    --message <text>     Body (defaults to the positional arguments)
    --type <type>        info, warning, error or success (default: info)
    --resource <id>      Resource opened when the alert is acknowledged
    --request <id>       Originating request id
    --city <name>        Origin city
    --id <id>            Notification id (default: random UUID)
    --to <owner>         Target owner (default: the signed-in owner)
    --json <file>        Read a notification document from file, - for stdin
    -h, --help           Show this help`,
		RunE: func(c *cobra.Command, args []string) error {
			var n domain.Notification
			if docPath != "" {
				doc, err := readDocument(c.InOrStdin(), docPath)
				if err != nil {
					return fmt.Errorf("add: %w", err)
				}
				n = domain.FromDocument(doc)
			}

			if c.Flags().Changed("title") {
				n.Title = title
			}
			if message == "" {
				message = strings.Join(args, " ")
			}
			if message != "" {
				n.Message = message
			}
			if c.Flags().Changed("type") {
				t, err := domain.ParseType(typ)
				if err != nil {
					return fmt.Errorf("add: %w", err)
				}
				n.Type = t
			}
			if resource != "" {
				n.ResourceID = resource
			}
			if request != "" {
				n.RequestID = request
			}
			if city != "" {
				n.City = city
			}
			if id != "" {
				n.ID = id
			}

			switch {
			case to != "":
				n.OwnerID = to
			case n.OwnerID == "":
				owner, err := cmd.RequireOwner()
				if err != nil {
					return fmt.Errorf("add: %w", err)
				}
				n.OwnerID = owner
			}

			added, err := client.Add(c.Context(), n)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			_, _ = fmt.Fprintln(c.OutOrStdout(), added.ID)

			runner := hooks.FromConfig(logging.GetGlobal())
			if err := runner.Run(c.Context(), hooks.PostAdd, hooks.NotificationEnv(added)); err != nil {
				return fmt.Errorf("add: %w", err)
			}
			return nil
		},
	}

	addCmd.Flags().StringVar(&title, "title", "", "Notification title")
	addCmd.Flags().StringVar(&message, "message", "", "Notification body")
	addCmd.Flags().StringVar(&typ, "type", string(domain.TypeInfo), "Type: info, warning, error, success")
	addCmd.Flags().StringVar(&resource, "resource", "", "Resource id opened on acknowledgement")
	addCmd.Flags().StringVar(&request, "request", "", "Originating request id")
	addCmd.Flags().StringVar(&city, "city", "", "Origin city")
	addCmd.Flags().StringVar(&id, "id", "", "Notification id")
	addCmd.Flags().StringVar(&to, "to", "", "Target owner id")
	addCmd.Flags().StringVar(&docPath, "json", "", "Notification document file, - for stdin")

	return addCmd
}

func readDocument(stdin io.Reader, path string) (domain.Document, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return doc, nil
}

// addCmd represents the add command
var addCmd = NewAddCmd(inboxClient)

func init() {
	cmd.RootCmd.AddCommand(addCmd)
}
