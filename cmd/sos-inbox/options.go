/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"os"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/haptics"
	"github.com/reliefline/sos-inbox/internal/hooks"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/reliefline/sos-inbox/internal/stream"
)

// pipelineClient is what an interactive command needs from storage.
type pipelineClient interface {
	pipeline.Store
	changefeed.Listener
}

// toastHook runs the on-toast scripts whenever an alert starts showing.
func toastHook(runner *hooks.Runner) func(pipeline.Entry) {
	return func(e pipeline.Entry) {
		if e.State == pipeline.StateShowing {
			runner.Go(hooks.OnToast, hooks.NotificationEnv(e.Notification))
		}
	}
}

// pipelineOptions wires a pipeline from configuration.
func pipelineOptions(client pipelineClient) pipeline.Options {
	timing := pipeline.DefaultTiming()
	timing.Display = config.GetMillis("toast_display_ms", timing.Display)
	return pipeline.Options{
		Store:        client,
		Identity:     cmd.Identity(),
		Listener:     client,
		Haptics:      haptics.FromConfig(config.Get("haptics_enabled", "true"), os.Stdout),
		Logger:       logging.GetGlobal(),
		Window:       config.GetMillis("newness_window_ms", pipeline.DefaultWindow),
		Timing:       timing,
		PollInterval: config.GetMillis("poll_interval_ms", stream.DefaultInterval),
	}
}
