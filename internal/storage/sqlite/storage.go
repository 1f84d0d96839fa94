// Package sqlite provides a SQLite-backed notification store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/reliefline/sos-inbox/internal/domain"
	_ "modernc.org/sqlite"
)

const busyTimeoutMS = 5000

// Storage implements domain.Repository on a local SQLite database.
type Storage struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ domain.Repository = (*Storage)(nil)

type row struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	Title      sql.NullString `db:"title"`
	Message    sql.NullString `db:"message"`
	Type       sql.NullString `db:"type"`
	ResourceID sql.NullString `db:"resource_id"`
	RequestID  sql.NullString `db:"request_id"`
	CreatedAt  sql.NullInt64  `db:"created_at"`
	ReadAt     sql.NullInt64  `db:"read_at"`
	Read       sql.NullInt64  `db:"read"`
	City       sql.NullString `db:"city"`
}

const selectColumns = `id, user_id, title, message, type, resource_id, request_id, created_at, read_at, read, city`

// New opens (or creates) the database at dbPath with WAL journaling and a
// busy timeout, and creates the schema.
func New(dbPath string) (*Storage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", dbPath, busyTimeoutMS)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return &Storage{db: db, now: time.Now}, nil
}

// Close closes the underlying connection pool.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts a notification.
func (s *Storage) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	n, err := domain.NewNotification(n, s.now())
	if err != nil {
		return domain.Notification{}, fmt.Errorf("adding notification: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.Title, n.Message, string(n.Type),
		nullString(n.ResourceID), nullString(n.RequestID),
		n.CreatedAt.UnixNano(), nullTime(n.ReadAt), boolToInt(n.Read),
		nullString(n.City),
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
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+selectColumns+`
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing notifications for %s: %w", owner, err)
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Get returns one notification by id.
func (s *Storage) Get(ctx context.Context, id string) (domain.Notification, error) {
	if err := domain.CheckID(id); err != nil {
		return domain.Notification{}, err
	}
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT `+selectColumns+` FROM notifications WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("getting notification %s: %w", id, err)
	}
	return r.toDomain(), nil
}

// MarkRead marks a notification as read, keeping the first read time.
func (s *Storage) MarkRead(ctx context.Context, id string, at time.Time) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = 1, read_at = ?
		WHERE id = ? AND read = 0`, at.UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return s.ensureExists(ctx, id)
}

// MarkUnread clears the read flag.
func (s *Storage) MarkUnread(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 0, read_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification %s as unread: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
	}
	return nil
}

// MarkAllRead marks every unread notification of owner.
func (s *Storage) MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error) {
	if err := domain.CheckOwner(owner); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = 1, read_at = ?
		WHERE user_id = ? AND read = 0`, at.UTC().UnixNano(), owner)
	if err != nil {
		return 0, fmt.Errorf("marking all notifications of %s as read: %w", owner, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("marking all notifications of %s as read: %w", owner, err)
	}
	return int(n), nil
}

// UnreadCount counts the owner's unread notifications.
func (s *Storage) UnreadCount(ctx context.Context, owner string) (int, error) {
	if err := domain.CheckOwner(owner); err != nil {
		return 0, err
	}
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, owner)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications for %s: %w", owner, err)
	}
	return count, nil
}

func (s *Storage) ensureExists(ctx context.Context, id string) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("checking notification %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
	}
	return nil
}

func (r row) toDomain() domain.Notification {
	n := domain.Notification{
		ID:         r.ID,
		OwnerID:    r.UserID,
		Title:      r.Title.String,
		Message:    r.Message.String,
		Type:       domain.Type(strings.ToLower(r.Type.String)).OrDefault(),
		ResourceID: r.ResourceID.String,
		RequestID:  r.RequestID.String,
		Read:       r.Read.Int64 != 0,
		City:       r.City.String,
	}
	if r.CreatedAt.Valid && r.CreatedAt.Int64 > 0 {
		n.CreatedAt = time.Unix(0, r.CreatedAt.Int64).UTC()
	}
	if r.ReadAt.Valid && r.ReadAt.Int64 > 0 {
		at := time.Unix(0, r.ReadAt.Int64).UTC()
		n.ReadAt = &at
	}
	return n
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().UnixNano(), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
