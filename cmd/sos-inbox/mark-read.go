/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/spf13/cobra"
)

type markReadClient interface {
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkUnread(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error)
}

// NewMarkReadCmd creates the mark-read command with explicit dependencies.
func NewMarkReadCmd(client markReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkReadCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark a notification as read",
		Long: `Mark a notification as read by ID. An already read notification keeps its read time.

USAGE:
    sos-inbox mark-read <id>

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			if err := client.MarkRead(c.Context(), id, nowFunc()); err != nil {
				return fmt.Errorf("mark-read: %w", err)
			}
			colors.Success(fmt.Sprintf("Notification %s marked as read", id))
			return nil
		},
	}
}

// NewMarkUnreadCmd creates the mark-unread command with explicit dependencies.
func NewMarkUnreadCmd(client markReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkUnreadCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-unread <id>",
		Short: "Mark a notification as unread",
		Long: `Mark a notification as unread by ID and clear its read time.

USAGE:
    sos-inbox mark-unread <id>

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			if err := client.MarkUnread(c.Context(), id); err != nil {
				return fmt.Errorf("mark-unread: %w", err)
			}
			colors.Success(fmt.Sprintf("Notification %s marked as unread", id))
			return nil
		},
	}
}

// NewMarkAllReadCmd creates the mark-all-read command with explicit dependencies.
func NewMarkAllReadCmd(client markReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkAllReadCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification of the signed-in owner as read",
		Long: `Mark every unread notification of the signed-in owner as read.

USAGE:
    sos-inbox mark-all-read

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			owner, err := cmd.RequireOwner()
			if err != nil {
				return fmt.Errorf("mark-all-read: %w", err)
			}
			n, err := client.MarkAllRead(c.Context(), owner, nowFunc())
			if err != nil {
				return fmt.Errorf("mark-all-read: %w", err)
			}
			colors.Success(fmt.Sprintf("Marked %d notification(s) as read", n))
			return nil
		},
	}
}

var (
	markReadCmd    = NewMarkReadCmd(inboxClient)
	markUnreadCmd  = NewMarkUnreadCmd(inboxClient)
	markAllReadCmd = NewMarkAllReadCmd(inboxClient)
)

func init() {
	cmd.RootCmd.AddCommand(markReadCmd, markUnreadCmd, markAllReadCmd)
}
