package storage

import (
	"context"
	"time"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/logging"
)

// Notifying wraps a repository and publishes a change event after every
// successful mutation that changed something. Publish failures are logged; the mutation stands.
type Notifying struct {
	domain.Repository
	publisher changefeed.Publisher
	logger    logging.Logger
}

// NewNotifying decorates repo with change publication.
func NewNotifying(repo domain.Repository, publisher changefeed.Publisher, logger logging.Logger) *Notifying {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Notifying{Repository: repo, publisher: publisher, logger: logger}
}

// Add inserts n and announces it to the owner's listeners.
func (s *Notifying) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	added, err := s.Repository.Add(ctx, n)
	if err != nil {
		return added, err
	}
	s.publish(ctx, changefeed.Event{Owner: added.OwnerID, ID: added.ID, Op: changefeed.OpCreated})
	return added, nil
}

// MarkRead marks id as read and announces it when it was unread.
func (s *Notifying) MarkRead(ctx context.Context, id string, at time.Time) error {
	return s.setRead(ctx, id, true, changefeed.OpRead, func() error {
		return s.Repository.MarkRead(ctx, id, at)
	})
}

// MarkUnread marks id as unread and announces it when it was read.
func (s *Notifying) MarkUnread(ctx context.Context, id string) error {
	return s.setRead(ctx, id, false, changefeed.OpUnread, func() error {
		return s.Repository.MarkUnread(ctx, id)
	})
}

// MarkAllRead marks the owner's notifications read and announces it when any changed.
func (s *Notifying) MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error) {
	changed, err := s.Repository.MarkAllRead(ctx, owner, at)
	if err != nil || changed == 0 {
		return changed, err
	}
	s.publish(ctx, changefeed.Event{Owner: owner, Op: changefeed.OpReadAll})
	return changed, nil
}

// setRead runs apply and publishes op if the read flag of id changed.
// The prior state also gives the owner, which the mutation calls do not carry.
func (s *Notifying) setRead(ctx context.Context, id string, read bool, op changefeed.Op, apply func() error) error {
	before, lookupErr := s.Repository.Get(ctx, id)
	if err := apply(); err != nil {
		return err
	}
	if lookupErr != nil {
		s.logger.Warn("change event skipped, notification lookup failed", "id", id, "op", op, "error", lookupErr)
		return nil
	}
	if before.Read == read {
		return nil
	}
	s.publish(ctx, changefeed.Event{Owner: before.OwnerID, ID: id, Op: op})
	return nil
}

func (s *Notifying) publish(ctx context.Context, ev changefeed.Event) {
	ev.At = time.Now().UTC()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("publishing change event failed", "owner", ev.Owner, "id", ev.ID, "op", ev.Op, "error", err)
	}
}
