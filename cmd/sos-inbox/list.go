/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/format"
	"github.com/reliefline/sos-inbox/internal/search"
	"github.com/spf13/cobra"
)

type listClient interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.Notification, error)
}

// nowFunc is the reference time for relative ages. Can be changed for testing.
var nowFunc = time.Now

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var (
		formatFlag string
		opts       domain.FilterOptions
		groupBy    string
		query      string
		searchMode string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications of the signed-in owner",
		Long: `List notifications of the signed-in owner, newest first.

USAGE:
    sos-inbox list [OPTIONS]

OPTIONS:
    --format <format>    simple, table, compact or json (default: table)
    --type <type>        Only this type
    --city <name>        Only this city
    --read <state>       read or unread
    --group-by <field>   none, city or type (default: none)
    --search <query>     Only notifications matching the query
    --search-mode <mode> token, substring or regex (default: token)
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ft, err := format.ParseFormatterType(formatFlag)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			filter, err := opts.ToFilter()
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			mode := domain.GroupByMode(groupBy)
			if !mode.IsValid() {
				return fmt.Errorf("list: invalid group-by: %q (must be none, city or type)", groupBy)
			}
			provider, err := search.New(searchMode)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			owner, err := cmd.RequireOwner()
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			notifs, err := client.ListByOwner(c.Context(), owner)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			notifs = search.Filter(provider, filter.Apply(notifs), query)

			out := c.OutOrStdout()
			if len(notifs) == 0 && ft != format.FormatterTypeJSON {
				_, _ = fmt.Fprintln(out, "No notifications found")
				return nil
			}
			f := format.NewFormatter(ft, nowFunc())
			if mode != domain.GroupByNone {
				return f.FormatGroups(domain.GroupNotifications(notifs, mode), out)
			}
			return f.FormatNotifications(notifs, out)
		},
	}

	listCmd.Flags().StringVar(&formatFlag, "format", string(format.FormatterTypeTable), "Output format: simple, table, compact, json")
	listCmd.Flags().StringVar(&opts.Type, "type", "", "Filter by type")
	listCmd.Flags().StringVar(&opts.City, "city", "", "Filter by city")
	listCmd.Flags().StringVar(&opts.ReadFilter, "read", "", "Filter by read state: read, unread")
	listCmd.Flags().StringVar(&groupBy, "group-by", string(domain.GroupByNone), "Group by: none, city, type")
	listCmd.Flags().StringVar(&query, "search", "", "Search query")
	listCmd.Flags().StringVar(&searchMode, "search-mode", "token", "Search mode: token, substring, regex")

	return listCmd
}

// listCmd represents the list command
var listCmd = NewListCmd(inboxClient)

func init() {
	cmd.RootCmd.AddCommand(listCmd)
}
