// Package hooks runs user scripts at fixed points of the notification
// lifecycle. Scripts live in <hooks_dir>/<point>/ and run in name order;
// only executable regular files are considered.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/logging"
)

// Hook points.
const (
	// PostAdd runs after the add command stored a notification.
	PostAdd = "post-add"
	// OnToast runs when an alert starts showing.
	OnToast = "on-toast"
)

// Failure modes.
const (
	FailureAbort  = "abort"
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
)

// DefaultTimeout bounds every script run.
const DefaultTimeout = 30 * time.Second

// maxAsync caps scripts running in the background at once.
const maxAsync = 10

// Runner executes hook scripts.
type Runner struct {
	Dir         string
	FailureMode string
	Timeout     time.Duration
	Logger      logging.Logger

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// FromConfig builds a runner from hooks_dir (default {config_dir}/hooks),
// hooks_failure_mode and hooks_timeout_ms.
func FromConfig(logger logging.Logger) *Runner {
	dir := config.Get("hooks_dir", "")
	if dir == "" {
		dir = filepath.Join(config.Get("config_dir", ""), "hooks")
	}
	return &Runner{
		Dir:         dir,
		FailureMode: config.Get("hooks_failure_mode", FailureWarn),
		Timeout:     config.GetMillis("hooks_timeout_ms", DefaultTimeout),
		Logger:      logger,
	}
}

func (r *Runner) logger() logging.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

// scripts lists the executable scripts of point, sorted by name.
func (r *Runner) scripts(point string) []string {
	dir := filepath.Join(r.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || info.Mode()&0o111 == 0 {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func (r *Runner) command(ctx context.Context, point, script string, env map[string]string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, script)
	cmd.WaitDelay = time.Second
	cmd.Env = append(os.Environ(),
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+time.Now().UTC().Format(time.RFC3339),
	)
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Env = append(cmd.Env, k+"="+env[k])
	}
	return cmd
}

// Run executes the scripts of point one after the other. In abort mode the
// first failure stops the run and is returned; otherwise failures are
// logged (warn) or dropped (ignore) and Run returns nil.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	log := r.logger().With("component", "hooks", "point", point)
	for _, script := range r.scripts(point) {
		runCtx, cancel := context.WithTimeout(ctx, r.timeout())
		start := time.Now()
		output, err := r.command(runCtx, point, script, env).CombinedOutput()
		cancel()
		name := filepath.Base(script)
		if err == nil {
			log.Debug("hook completed", "script", name, "duration", time.Since(start))
			continue
		}
		switch r.FailureMode {
		case FailureAbort:
			return fmt.Errorf("hook %s failed: %w: %s", name, err, strings.TrimSpace(string(output)))
		case FailureIgnore:
		default:
			log.Warn("hook failed", "script", name, "error", err, "output", strings.TrimSpace(string(output)))
		}
	}
	return nil
}

// ErrTooManyPending is logged when a background run is skipped.
var ErrTooManyPending = errors.New("too many hooks pending")

// Go runs the scripts of point in the background. It never blocks the
// caller; runs beyond the pending cap are skipped with a warning.
func (r *Runner) Go(point string, env map[string]string) {
	if len(r.scripts(point)) == 0 {
		return
	}
	r.mu.Lock()
	if r.pending >= maxAsync {
		r.mu.Unlock()
		r.logger().Warn("hook skipped", "point", point, "error", ErrTooManyPending)
		return
	}
	r.pending++
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.pending--
			r.mu.Unlock()
			r.wg.Done()
		}()
		if err := r.Run(context.Background(), point, env); err != nil {
			r.logger().Warn("hook failed", "point", point, "error", err)
		}
	}()
}

// Wait blocks until background runs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// NotificationEnv is the environment describing n to a script.
func NotificationEnv(n domain.Notification) map[string]string {
	return map[string]string{
		"SOS_INBOX_ID":          n.ID,
		"SOS_INBOX_OWNER":       n.OwnerID,
		"SOS_INBOX_TITLE":       n.Title,
		"SOS_INBOX_MESSAGE":     n.Message,
		"SOS_INBOX_TYPE":        n.Type.OrDefault().String(),
		"SOS_INBOX_RESOURCE_ID": n.ResourceID,
		"SOS_INBOX_REQUEST_ID":  n.RequestID,
		"SOS_INBOX_CITY":        n.Locality(),
	}
}
