/*
Copyright © 2026 Reliefline Authors <license@reliefline.org>
*/
package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/storage"
	"github.com/reliefline/sos-inbox/internal/version"
)

// inbox opens the configured backend on first use. It serves every
// command's client interface so commands that never touch storage never
// open it.
type inbox struct {
	mu      sync.Mutex
	backend *storage.Backend
	open    func(context.Context) (*storage.Backend, error)
}

var inboxClient = &inbox{open: storage.NewFromConfig}

func (c *inbox) ensure(ctx context.Context) (*storage.Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return c.backend, nil
	}
	if c.open == nil {
		return nil, errors.New("no storage configured")
	}
	b, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	c.backend = b
	return b, nil
}

func (c *inbox) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	b, err := c.ensure(ctx)
	if err != nil {
		return domain.Notification{}, err
	}
	return b.Repo.Add(ctx, n)
}

func (c *inbox) ListByOwner(ctx context.Context, owner string) ([]domain.Notification, error) {
	b, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return b.Repo.ListByOwner(ctx, owner)
}

func (c *inbox) MarkRead(ctx context.Context, id string, at time.Time) error {
	b, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	return b.Repo.MarkRead(ctx, id, at)
}

func (c *inbox) MarkUnread(ctx context.Context, id string) error {
	b, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	return b.Repo.MarkUnread(ctx, id)
}

func (c *inbox) MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error) {
	b, err := c.ensure(ctx)
	if err != nil {
		return 0, err
	}
	return b.Repo.MarkAllRead(ctx, owner, at)
}

func (c *inbox) UnreadCount(ctx context.Context, owner string) (int, error) {
	b, err := c.ensure(ctx)
	if err != nil {
		return 0, err
	}
	return b.Repo.UnreadCount(ctx, owner)
}

// Listen follows the backend's change feed for owner.
func (c *inbox) Listen(ctx context.Context, owner string) (<-chan changefeed.Event, error) {
	b, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return b.Feed.Listen(ctx, owner)
}

// Close releases the backend if it was opened.
func (c *inbox) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend == nil {
		return nil
	}
	err := c.backend.Close()
	c.backend = nil
	return err
}

// Version returns the build version.
func (c *inbox) Version() string {
	return version.String()
}
