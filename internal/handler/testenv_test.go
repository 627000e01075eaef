package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/middleware"
	"github.com/iliyamo/cinema-session-booking/internal/model"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/token"
)

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

// testEnv wires the full HTTP surface against an in-memory database so
// tests exercise real routing, gates and repositories.  Redis is absent,
// which turns the limiter and cache into pass-throughs.
type testEnv struct {
	e        *echo.Echo
	db       *sql.DB
	cfg      config.Config
	tokens   *token.Service
	sessions *repository.SessionRepo
	accounts *repository.AccountRepo
	bookings *repository.BookingRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	adminHash, err := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Config{
		Env:            "test",
		UserJWTSecret:  "user-secret",
		AdminJWTSecret: "admin-secret",
		TokenTTLMin:    15,
		BcryptCost:     bcrypt.MinCost,
		Admins:         map[string]string{"boss": string(adminHash)},
	}

	env := &testEnv{
		db:       db,
		cfg:      cfg,
		tokens:   token.NewService(cfg.UserJWTSecret, cfg.AdminJWTSecret, cfg.TokenTTLMin),
		sessions: repository.NewSessionRepo(db),
		accounts: repository.NewAccountRepo(db),
		bookings: repository.NewBookingRepo(db),
	}

	authH := NewAuthHandler(cfg, env.accounts, env.tokens)
	catalogH := NewCatalogHandler(env.sessions)
	bookingH := NewBookingHandler(env.bookings, env.sessions)
	adminH := NewAdminHandler(env.sessions)

	e := echo.New()
	e.GET("/healthz", Health)
	e.GET("/", catalogH.Home)
	e.GET("/sessions/:id", catalogH.SessionDetail)

	e.POST("/user/register", authH.RegisterUser)
	e.POST("/user/login", authH.LoginUser)
	e.GET("/user/login", authH.LoginPage)
	e.GET("/user/logout", authH.LogoutUser)

	userGate := middleware.UserAuth(env.tokens, env.accounts)
	ug := e.Group("", userGate)
	ug.GET("/user/profile", bookingH.Profile)
	ug.GET("/user/profile/bookings/:id", bookingH.BookingDetail)
	ug.GET("/book/:session_id", bookingH.Book)
	ug.GET("/book/cancel/:booking_id", bookingH.CancelBooking)

	e.GET("/admin/login", authH.AdminLoginPage)
	e.POST("/admin/login", authH.LoginAdmin)
	e.GET("/admin/logout", authH.LogoutAdmin)
	adminGate := middleware.AdminAuth(env.tokens, cfg.Admins)
	ag := e.Group("/admin", adminGate)
	ag.GET("/panel", adminH.Panel)
	ag.POST("/add-session", adminH.AddSession)
	ag.POST("/delete-session/:id", adminH.DeleteSession)

	env.e = e
	return env
}

// do runs a request through the router and returns the recorder.
func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedSession(t *testing.T, movie string, startsAt time.Time, seats uint32) uint64 {
	t.Helper()
	s := &model.Session{
		Movie:       movie,
		Cinema:      "Central",
		Hall:        "1",
		StartsAt:    startsAt,
		DurationMin: 120,
		Seats:       seats,
	}
	require.NoError(t, env.sessions.Create(context.Background(), s))
	return s.ID
}

func (env *testEnv) seedAccount(t *testing.T, username, password string) uint64 {
	t.Helper()
	id, err := env.accounts.Create(context.Background(), username, password, bcrypt.MinCost)
	require.NoError(t, err)
	return id
}

// userCookie issues a valid user token for the username and wraps it in
// the cookie the gate expects.
func (env *testEnv) userCookie(t *testing.T, username string) *http.Cookie {
	t.Helper()
	raw, _, err := env.tokens.Issue(username, token.KindUser)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.UserCookieName, Value: raw}
}

func (env *testEnv) adminCookie(t *testing.T, username string) *http.Cookie {
	t.Helper()
	raw, _, err := env.tokens.Issue(username, token.KindAdmin)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.AdminCookieName, Value: raw}
}

func (env *testEnv) sessionSeats(t *testing.T, id uint64) uint32 {
	t.Helper()
	var seats uint32
	require.NoError(t, env.db.QueryRow(`SELECT seats FROM sessions WHERE id = ?`, id).Scan(&seats))
	return seats
}
