/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/hooks"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/reliefline/sos-inbox/internal/presentation"
	"github.com/spf13/cobra"
)

// toastInterval is the toast clock resolution of follow.
const toastInterval = 100 * time.Millisecond

// NewFollowCmd creates the follow command with explicit dependencies.
func NewFollowCmd(client pipelineClient) *cobra.Command {
	if client == nil {
		panic("NewFollowCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "follow",
		Short: "Print new notifications as they arrive",
		Long: `Print new notifications of the signed-in owner as they arrive.

Only notifications created in the last few seconds are printed, each once,
in arrival order. Older or already read notifications are skipped.

USAGE:
    sos-inbox follow

OPTIONS:
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			runner := hooks.FromConfig(logging.GetGlobal())
			defer runner.Wait()

			opts := pipelineOptions(client)
			opts.OnToast = toastHook(runner)
			return Follow(c.Context(), FollowOptions{
				Pipeline: opts,
				Output:   c.OutOrStdout(),
			})
		},
	}
}

// FollowOptions holds all parameters for following notifications.
type FollowOptions struct {
	Pipeline   pipeline.Options
	Output     io.Writer        // where to write alerts (default os.Stdout)
	ToastTicks <-chan time.Time // optional toast clock for testing (if nil, a ticker is created)
}

// printToast prints one alert with its type treatment.
func printToast(w io.Writer, n domain.Notification) {
	text := n.Title
	switch {
	case text == "":
		text = n.Message
	case n.Message != "":
		text += ": " + n.Message
	}
	ts := "N/A"
	if !n.CreatedAt.IsZero() {
		ts = n.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	}
	_, _ = fmt.Fprintf(w, "[%s] %s %s\n", ts, presentation.Project(n.Type).Badge(), text)
	if n.Locality() != "" {
		_, _ = fmt.Fprintf(w, "  └─ City: %s\n", n.Locality())
	}
	if n.HasResource() {
		_, _ = fmt.Fprintf(w, "  └─ Resource: %s\n", n.ResourceID)
	}
}

// Follow runs a headless pipeline and prints every toast it shows. It runs
// until interrupted (Ctrl+C), the context is cancelled or the subscription
// ends.
func Follow(ctx context.Context, opts FollowOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	popts := opts.Pipeline
	next := popts.OnToast
	popts.OnToast = func(e pipeline.Entry) {
		if e.State == pipeline.StateShowing {
			printToast(opts.Output, e.Notification)
		}
		if next != nil {
			next(e)
		}
	}
	p := pipeline.New(popts)
	defer p.Close()

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	colors.Info(fmt.Sprintf("Following notifications for %s (Ctrl+C to stop)...", p.Owner()))

	ticks := opts.ToastTicks
	if ticks == nil {
		ticker := time.NewTicker(toastInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	var last time.Time
	updates := p.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigChan:
			_, _ = fmt.Fprintf(opts.Output, "\nReceived signal %v, stopping...\n", sig)
			return nil
		case snap, ok := <-updates:
			if !ok {
				if err := p.Err(); err != nil {
					return fmt.Errorf("follow: %w", err)
				}
				return nil
			}
			p.HandleSnapshot(snap)
		case t := <-ticks:
			d := toastInterval
			if !last.IsZero() && t.After(last) {
				d = t.Sub(last)
			}
			last = t
			p.Tick(d)
		}
	}
}

// followCmd represents the follow command
var followCmd = NewFollowCmd(inboxClient)

func init() {
	cmd.RootCmd.AddCommand(followCmd)
}
