// Package storage provides storage backend selection and change publication.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/storage/postgres"
	"github.com/reliefline/sos-inbox/internal/storage/sqlite"
)

const (
	// BackendSQLite selects the embedded SQLite store.
	BackendSQLite = "sqlite"
	// BackendPostgres selects a shared PostgreSQL store.
	BackendPostgres = "postgres"

	notificationsDBFileName = "notifications.db"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	StateDir      string
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	Logger        logging.Logger
}

// OptionsFromConfig reads Options from the loaded configuration.
func OptionsFromConfig() Options {
	return Options{
		Backend:       config.Get("storage_backend", BackendSQLite),
		StateDir:      config.Get("state_dir", ""),
		PostgresURL:   config.Get("postgres_url", ""),
		RedisAddr:     config.Get("redis_addr", ""),
		RedisPassword: config.Get("redis_password", ""),
		Logger:        logging.GetGlobal(),
	}
}

// Backend bundles the repository with the change feed its writes publish to.
type Backend struct {
	Repo domain.Repository
	Feed changefeed.Feed
}

// Close releases the repository and the feed.
func (b *Backend) Close() error {
	return errors.Join(b.Repo.Close(), b.Feed.Close())
}

// NewFromConfig opens the backend described by the loaded configuration.
func NewFromConfig(ctx context.Context) (*Backend, error) {
	return Open(ctx, OptionsFromConfig())
}

// Open opens the repository and the change feed, then wires them together.
// An unknown backend or an unreachable postgres falls back to sqlite, an
// unreachable redis to the in-process feed; both with a warning.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	repo, err := openRepository(ctx, opts)
	if err != nil {
		return nil, err
	}
	feed := openFeed(ctx, opts)
	return &Backend{
		Repo: NewNotifying(repo, feed, opts.Logger.With("component", "storage")),
		Feed: feed,
	}, nil
}

func openRepository(ctx context.Context, opts Options) (domain.Repository, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
	case BackendPostgres:
		repo, err := postgres.New(ctx, opts.PostgresURL)
		if err == nil {
			return repo, nil
		}
		colors.Warning(fmt.Sprintf("failed to initialize postgres backend, falling back to sqlite: %v", err))
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to sqlite", opts.Backend))
	}
	return openSQLite(opts.StateDir)
}

func openSQLite(stateDir string) (domain.Repository, error) {
	if stateDir == "" {
		return nil, fmt.Errorf("sqlite backend: state_dir is not configured")
	}
	repo, err := sqlite.New(filepath.Join(stateDir, notificationsDBFileName))
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func openFeed(ctx context.Context, opts Options) changefeed.Feed {
	if opts.RedisAddr == "" {
		return changefeed.NewLocal()
	}
	feed, err := changefeed.NewRedis(ctx, changefeed.RedisOptions{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		Logger:   opts.Logger,
	})
	if err != nil {
		colors.Warning(fmt.Sprintf("redis change feed unavailable, live updates limited to this process: %v", err))
		return changefeed.NewLocal()
	}
	return feed
}
