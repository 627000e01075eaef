package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// BookingRepo is the capacity-safe booking allocator.  It is the sole
// writer of booking rows and of sessions.seats: Book decrements the seat
// counter and Cancel restores it, each inside a single transaction, so
// that at every commit point
//
//	sessions.seats == original seats - count(bookings for the session)
//
// holds and the counter never goes negative. The capacity check and the
// decrement are one serialized unit: the decrement is a conditional
// UPDATE ... WHERE seats > 0, which the database executes under the
// session row's write lock. Two transactions racing for the last seat
// therefore cannot both pass the check — the loser sees zero affected
// rows and aborts with ErrNoSeats. Duplicate bookings are rejected by a
// pre-check and backstopped by the UNIQUE(account_id, session_id) index.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB handle.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// Book reserves one seat on a session for the account.  On success it
// returns the new booking.  Failure modes: ErrSessionNotFound,
// ErrAlreadyBooked, ErrNoSeats, and ErrTxConflict for lock contention.
// An aborted transaction leaves no partial writes, so every failure is
// safe to retry.
func (r *BookingRepo) Book(ctx context.Context, accountID, sessionID uint64) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Session must exist before anything else is attempted.
	var seats uint32
	err = tx.QueryRowContext(ctx, `SELECT seats FROM sessions WHERE id = ?`, sessionID).Scan(&seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}

	// One live booking per (account, session).
	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE account_id = ? AND session_id = ?`,
		accountID, sessionID).Scan(&existing)
	if err == nil {
		return nil, ErrAlreadyBooked
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (account_id, session_id, created_at) VALUES (?, ?, ?)`,
		accountID, sessionID, now.Format(dbTimeLayout))
	if err != nil {
		// The unique index catches duplicate creates that raced past the
		// pre-check on another connection.
		if isDuplicate(err) {
			return nil, ErrAlreadyBooked
		}
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Capacity check and decrement in one statement. Zero affected rows
	// means another booking took the last seat; the rollback removes the
	// booking row inserted above.
	upd, err := tx.ExecContext(ctx,
		`UPDATE sessions SET seats = seats - 1 WHERE id = ? AND seats > 0`, sessionID)
	if err != nil {
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}
	affected, err := upd.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNoSeats
	}

	if err := tx.Commit(); err != nil {
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}
	committed = true
	return &model.Booking{
		ID:        uint64(id),
		AccountID: accountID,
		SessionID: sessionID,
		CreatedAt: now,
	}, nil
}

// Cancel removes a booking and returns the deleted snapshot, restoring
// one seat to the referenced session inside the same transaction.  Only
// the owning account may cancel: a mismatched accountID yields
// ErrForbidden and nothing is deleted.  Unknown bookings yield
// ErrBookingNotFound.
func (r *BookingRepo) Cancel(ctx context.Context, accountID, bookingID uint64) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var b model.Booking
	var created string
	err = tx.QueryRowContext(ctx,
		`SELECT id, account_id, session_id, created_at FROM bookings WHERE id = ?`,
		bookingID).Scan(&b.ID, &b.AccountID, &b.SessionID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}
	b.CreatedAt = parseDBTime(created)
	if b.AccountID != accountID {
		return nil, ErrForbidden
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
	if err != nil {
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	// The snapshot read above does not lock the row, so a concurrent
	// cancel may have deleted it already; the blocked DELETE then matches
	// zero rows without error. Crediting a seat for a delete that removed
	// nothing would push seats past the creation value.
	if affected == 0 {
		return nil, ErrBookingNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET seats = seats + 1 WHERE id = ?`, b.SessionID); err != nil {
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isLockConflict(err) {
			return nil, ErrTxConflict
		}
		return nil, err
	}
	committed = true
	return &b, nil
}

// BookingDetail joins a booking with its session for display on the
// profile page.
type BookingDetail struct {
	ID          uint64    `json:"id"`
	SessionID   uint64    `json:"session_id"`
	Movie       string    `json:"movie"`
	Cinema      string    `json:"cinema"`
	Hall        string    `json:"hall"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin uint32    `json:"duration_min"`
	BookedAt    time.Time `json:"booked_at"`
}

// ListUpcomingByAccount returns the account's bookings whose session has
// not yet started, ordered by session start time ascending.
func (r *BookingRepo) ListUpcomingByAccount(ctx context.Context, accountID uint64, now time.Time) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.session_id, s.movie, s.cinema, s.hall, s.starts_at, s.duration_min, b.created_at
	           FROM bookings b
	           JOIN sessions s ON s.id = b.session_id
	           WHERE b.account_id = ? AND s.starts_at >= ?
	           ORDER BY s.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, accountID, now.UTC().Format(dbTimeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var startsAt, booked string
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Movie, &d.Cinema, &d.Hall,
			&startsAt, &d.DurationMin, &booked); err != nil {
			return nil, err
		}
		d.StartsAt = parseDBTime(startsAt)
		d.BookedAt = parseDBTime(booked)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetailForAccount returns a single booking with session details,
// restricted to the owning account.  ErrBookingNotFound covers both a
// missing row and a booking owned by someone else, so the endpoint does
// not leak other users' booking IDs.
func (r *BookingRepo) GetDetailForAccount(ctx context.Context, bookingID, accountID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.session_id, s.movie, s.cinema, s.hall, s.starts_at, s.duration_min, b.created_at
	           FROM bookings b
	           JOIN sessions s ON s.id = b.session_id
	           WHERE b.id = ? AND b.account_id = ?`
	var d BookingDetail
	var startsAt, booked string
	err := r.db.QueryRowContext(ctx, q, bookingID, accountID).Scan(
		&d.ID, &d.SessionID, &d.Movie, &d.Cinema, &d.Hall, &startsAt, &d.DurationMin, &booked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	d.StartsAt = parseDBTime(startsAt)
	d.BookedAt = parseDBTime(booked)
	return &d, nil
}
