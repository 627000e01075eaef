package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "alice", "pass1234")
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 2)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/%d", sid), nil)
	req.AddCookie(env.userCookie(t, "alice"))
	rec := env.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/user/profile", rec.Header().Get("Location"))
	assert.Equal(t, uint32(1), env.sessionSeats(t, sid))
}

func TestBookEndpointUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "alice", "pass1234")

	req := httptest.NewRequest(http.MethodGet, "/book/999", nil)
	req.AddCookie(env.userCookie(t, "alice"))
	rec := env.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookEndpointTwice(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "alice", "pass1234")
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 5)

	for i, want := range []int{http.StatusSeeOther, http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/%d", sid), nil)
		req.AddCookie(env.userCookie(t, "alice"))
		rec := env.do(req)
		assert.Equalf(t, want, rec.Code, "attempt %d", i+1)
	}
	// The duplicate attempt must not consume a seat.
	assert.Equal(t, uint32(4), env.sessionSeats(t, sid))
}

func TestBookEndpointSoldOut(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "alice", "pass1234")
	env.seedAccount(t, "bob", "pass1234")
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 1)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/%d", sid), nil)
	req.AddCookie(env.userCookie(t, "alice"))
	require.Equal(t, http.StatusSeeOther, env.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/%d", sid), nil)
	req.AddCookie(env.userCookie(t, "bob"))
	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, uint32(0), env.sessionSeats(t, sid))
}

func TestCancelEndpoint(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.seedAccount(t, "alice", "pass1234")
	env.seedAccount(t, "bob", "pass1234")
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 3)

	b, err := env.bookings.Book(context.Background(), aliceID, sid)
	require.NoError(t, err)

	// Bob cannot cancel Alice's booking.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/cancel/%d", b.ID), nil)
	req.AddCookie(env.userCookie(t, "bob"))
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)
	assert.Equal(t, uint32(2), env.sessionSeats(t, sid))

	// Alice can.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/cancel/%d", b.ID), nil)
	req.AddCookie(env.userCookie(t, "alice"))
	rec := env.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, uint32(3), env.sessionSeats(t, sid))

	// Cancelling again finds nothing.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/cancel/%d", b.ID), nil)
	req.AddCookie(env.userCookie(t, "alice"))
	assert.Equal(t, http.StatusNotFound, env.do(req).Code)
}

func TestProfileListsOwnUpcomingBookings(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.seedAccount(t, "alice", "pass1234")
	bobID := env.seedAccount(t, "bob", "pass1234")
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 5)
	past := env.seedSession(t, "Old One", time.Now().UTC().Add(-24*time.Hour), 5)

	_, err := env.bookings.Book(context.Background(), aliceID, sid)
	require.NoError(t, err)
	_, err = env.bookings.Book(context.Background(), aliceID, past)
	require.NoError(t, err)
	_, err = env.bookings.Book(context.Background(), bobID, sid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.AddCookie(env.userCookie(t, "alice"))
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Username string `json:"username"`
		Bookings []struct {
			Movie string `json:"movie"`
		} `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Username)
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, "Dune", body.Bookings[0].Movie)
}

func TestBookingDetailScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.seedAccount(t, "alice", "pass1234")
	env.seedAccount(t, "bob", "pass1234")
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 5)

	b, err := env.bookings.Book(context.Background(), aliceID, sid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/user/profile/bookings/%d", b.ID), nil)
	req.AddCookie(env.userCookie(t, "alice"))
	rec := env.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Someone else's booking id reads as not found, not forbidden.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/user/profile/bookings/%d", b.ID), nil)
	req.AddCookie(env.userCookie(t, "bob"))
	assert.Equal(t, http.StatusNotFound, env.do(req).Code)
}

func TestBookRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	sid := env.seedSession(t, "Dune", time.Now().UTC().Add(24*time.Hour), 1)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/book/%d", sid), nil)
	rec := env.do(req)

	// Redirected by the gate; no seat was consumed.
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, uint32(1), env.sessionSeats(t, sid))
}
