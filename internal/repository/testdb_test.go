package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// testSchema mirrors schema.sql in SQLite dialect.  Timestamps are stored
// as "2006-01-02 15:04:05" strings, same as production.
const testSchema = `
CREATE TABLE sessions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    movie        TEXT    NOT NULL,
    cinema       TEXT    NOT NULL,
    hall         TEXT    NOT NULL,
    starts_at    TEXT    NOT NULL,
    duration_min INTEGER NOT NULL,
    description  TEXT    NOT NULL DEFAULT '',
    seats        INTEGER NOT NULL,
    created_at   TEXT    NOT NULL
);
CREATE TABLE accounts (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT    NOT NULL UNIQUE,
    password_hash TEXT    NOT NULL,
    created_at    TEXT    NOT NULL
);
CREATE TABLE bookings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id INTEGER NOT NULL,
    session_id INTEGER NOT NULL,
    created_at TEXT    NOT NULL,
    UNIQUE (account_id, session_id)
);
`

// newTestDB opens an in-memory database with the booking schema.  The
// pool is capped at one connection so every goroutine shares the single
// :memory: handle and transactions serialize the way MySQL row locks
// would.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedSession inserts a session with the given seat count starting one
// hour from now and returns its ID.
func seedSession(t *testing.T, db *sql.DB, seats uint32) uint64 {
	t.Helper()
	s := &model.Session{
		Movie:       "Stalker",
		Cinema:      "Aurora",
		Hall:        "1",
		StartsAt:    time.Now().UTC().Add(time.Hour),
		DurationMin: 161,
		Seats:       seats,
	}
	require.NoError(t, NewSessionRepo(db).Create(context.Background(), s))
	return s.ID
}

// seedAccount inserts an account and returns its ID.  Cost 4 keeps
// bcrypt cheap in tests.
func seedAccount(t *testing.T, db *sql.DB, username string) uint64 {
	t.Helper()
	id, err := NewAccountRepo(db).Create(context.Background(), username, "secret1", 4)
	require.NoError(t, err)
	return id
}

// sessionSeats reads the live seat counter directly.
func sessionSeats(t *testing.T, db *sql.DB, sessionID uint64) uint32 {
	t.Helper()
	var seats uint32
	require.NoError(t, db.QueryRow(`SELECT seats FROM sessions WHERE id = ?`, sessionID).Scan(&seats))
	return seats
}

// bookingCount counts live bookings for a session.
func bookingCount(t *testing.T, db *sql.DB, sessionID uint64) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE session_id = ?`, sessionID).Scan(&n))
	return n
}
