// Package repository contains data access logic for the booking domain.
// This file covers movie sessions. Timestamps are stored in the DB as
// "2006-01-02 15:04:05" strings in UTC and parsed at this boundary.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// dbTimeLayout is the wire format for all DATETIME columns.
const dbTimeLayout = "2006-01-02 15:04:05"

// parseDBTime converts a stored timestamp string to a UTC time.Time.
// Unparseable values yield the zero time.
func parseDBTime(s string) time.Time {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// SessionRepo manages persistence for movie sessions.  The seats column
// is written here only at creation time; afterwards it belongs to the
// booking repository exclusively.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB {
	return r.db
}

// Create inserts a new session and assigns the generated ID back to the
// struct.  Seats must be positive; that is validated by the handler.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions (movie, cinema, hall, starts_at, duration_min, description, seats, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, q,
		s.Movie, s.Cinema, s.Hall, s.StartsAt.UTC().Format(dbTimeLayout),
		s.DurationMin, s.Description, s.Seats, now.Format(dbTimeLayout))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.CreatedAt = now
	return nil
}

// GetByID retrieves a session by its ID.  It returns ErrSessionNotFound
// when there is no matching row.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT id, movie, cinema, hall, starts_at, duration_min, description, seats, created_at
	           FROM sessions WHERE id = ?`
	var (
		s        model.Session
		startsAt string
		created  string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Movie, &s.Cinema, &s.Hall, &startsAt, &s.DurationMin, &s.Description, &s.Seats, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	s.StartsAt = parseDBTime(startsAt)
	s.CreatedAt = parseDBTime(created)
	return &s, nil
}

// ListAll returns every session ordered by start time ascending.  Used by
// the admin panel, which shows past sessions as well.
func (r *SessionRepo) ListAll(ctx context.Context) ([]model.Session, error) {
	const q = `SELECT id, movie, cinema, hall, starts_at, duration_min, description, seats, created_at
	           FROM sessions ORDER BY starts_at ASC`
	return r.list(ctx, q)
}

// ListUpcoming returns sessions starting at or after now, ordered by start
// time ascending.  Used by the public catalog.
func (r *SessionRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Session, error) {
	const q = `SELECT id, movie, cinema, hall, starts_at, duration_min, description, seats, created_at
	           FROM sessions WHERE starts_at >= ? ORDER BY starts_at ASC`
	return r.list(ctx, q, now.UTC().Format(dbTimeLayout))
}

func (r *SessionRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Session, 0)
	for rows.Next() {
		var (
			s        model.Session
			startsAt string
			created  string
		)
		if err := rows.Scan(&s.ID, &s.Movie, &s.Cinema, &s.Hall, &startsAt,
			&s.DurationMin, &s.Description, &s.Seats, &created); err != nil {
			return nil, err
		}
		s.StartsAt = parseDBTime(startsAt)
		s.CreatedAt = parseDBTime(created)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a session and its dependent bookings in one transaction.
// Bookings must not outlive the session they reference, so they are
// deleted first.  Returns ErrSessionNotFound when the session does not
// exist; nothing is deleted in that case.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var exists uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
