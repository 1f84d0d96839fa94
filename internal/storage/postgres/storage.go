// Package postgres provides a PostgreSQL-backed notification store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reliefline/sos-inbox/internal/domain"
)

const connectTimeout = 10 * time.Second

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	title       TEXT,
	message     TEXT,
	type        TEXT,
	resource_id TEXT,
	request_id  TEXT,
	created_at  TIMESTAMPTZ,
	read_at     TIMESTAMPTZ,
	read        BOOLEAN NOT NULL DEFAULT false,
	city        TEXT
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_created
	ON notifications (user_id, created_at DESC);
`

const selectColumns = `id, user_id, title, message, type, resource_id, request_id, created_at, read_at, read, city`

// Storage implements domain.Repository on a pgx connection pool.
type Storage struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ domain.Repository = (*Storage)(nil)

// New connects to url, verifies the connection and creates the schema.
func New(ctx context.Context, url string) (*Storage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("postgres storage: connection url cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres storage: parse config: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres storage: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres storage: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres storage: create schema: %w", err)
	}
	return &Storage{pool: pool, now: time.Now}, nil
}

// Close releases the pool.
func (s *Storage) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Add inserts a notification.
func (s *Storage) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	n, err := domain.NewNotification(n, s.now())
	if err != nil {
		return domain.Notification{}, fmt.Errorf("adding notification: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.OwnerID, n.Title, n.Message, string(n.Type),
		nullable(n.ResourceID), nullable(n.RequestID),
		n.CreatedAt, n.ReadAt, n.Read, nullable(n.City),
	)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("adding notification %s: %w", n.ID, err)
	}
	return n, nil
}

// ListByOwner returns the owner's notifications, newest first.
func (s *Storage) ListByOwner(ctx context.Context, owner string) ([]domain.Notification, error) {
	if err := domain.CheckOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC NULLS LAST, id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing notifications for %s: %w", owner, err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("listing notifications for %s: %w", owner, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing notifications for %s: %w", owner, err)
	}
	return out, nil
}

// Get returns one notification by id.
func (s *Storage) Get(ctx context.Context, id string) (domain.Notification, error) {
	if err := domain.CheckID(id); err != nil {
		return domain.Notification{}, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Notification{}, fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("getting notification %s: %w", id, err)
	}
	return n, nil
}

// MarkRead marks a notification as read, keeping the first read time.
func (s *Storage) MarkRead(ctx context.Context, id string, at time.Time) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `
		UPDATE notifications SET read = true, read_at = $1
		WHERE id = $2 AND read = false`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking notification %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
	}
	return nil
}

// MarkUnread clears the read flag.
func (s *Storage) MarkUnread(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `UPDATE notifications SET read = false, read_at = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking notification %s as unread: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
	}
	return nil
}

// MarkAllRead marks every unread notification of owner.
func (s *Storage) MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error) {
	if err := domain.CheckOwner(owner); err != nil {
		return 0, err
	}
	ct, err := s.pool.Exec(ctx, `
		UPDATE notifications SET read = true, read_at = $1
		WHERE user_id = $2 AND read = false`, at.UTC(), owner)
	if err != nil {
		return 0, fmt.Errorf("marking all notifications of %s as read: %w", owner, err)
	}
	return int(ct.RowsAffected()), nil
}

// UnreadCount counts the owner's unread notifications.
func (s *Storage) UnreadCount(ctx context.Context, owner string) (int, error) {
	if err := domain.CheckOwner(owner); err != nil {
		return 0, err
	}
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`, owner).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications for %s: %w", owner, err)
	}
	return count, nil
}

func scan(row pgx.Row) (domain.Notification, error) {
	var (
		n                                                domain.Notification
		title, message, typ, resourceID, requestID, city *string
		createdAt, readAt                                *time.Time
	)
	err := row.Scan(&n.ID, &n.OwnerID, &title, &message, &typ, &resourceID, &requestID,
		&createdAt, &readAt, &n.Read, &city)
	if err != nil {
		return domain.Notification{}, err
	}
	n.Title = deref(title)
	n.Message = deref(message)
	n.Type = domain.Type(strings.ToLower(deref(typ))).OrDefault()
	n.ResourceID = deref(resourceID)
	n.RequestID = deref(requestID)
	n.City = deref(city)
	if createdAt != nil {
		n.CreatedAt = createdAt.UTC()
	}
	if readAt != nil {
		at := readAt.UTC()
		n.ReadAt = &at
	}
	return n, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
