package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/model"
	"github.com/iliyamo/cinema-session-booking/internal/queue"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	queuepub "github.com/iliyamo/cinema-session-booking/internal/service"
)

// bookingStore is the slice of the booking repository the handler
// consumes.  *repository.BookingRepo satisfies it.
type bookingStore interface {
	Book(ctx context.Context, accountID, sessionID uint64) (*model.Booking, error)
	Cancel(ctx context.Context, accountID, bookingID uint64) (*model.Booking, error)
	ListUpcomingByAccount(ctx context.Context, accountID uint64, now time.Time) ([]repository.BookingDetail, error)
	GetDetailForAccount(ctx context.Context, bookingID, accountID uint64) (*repository.BookingDetail, error)
}

// BookingHandler drives the booking lifecycle for the authenticated user.
type BookingHandler struct {
	Bookings bookingStore
	Sessions *repository.SessionRepo
}

func NewBookingHandler(bookings bookingStore, sessions *repository.SessionRepo) *BookingHandler {
	if bookings == nil || sessions == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Sessions: sessions}
}

// Book handles GET /book/:session_id.  One booking per account per
// session; a lock conflict gets a single retry before the request gives
// up with 503.
func (h *BookingHandler) Book(c echo.Context) error {
	acc, err := currentAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	sessionID, err := strconv.ParseUint(c.Param("session_id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.Book(ctx, acc.ID, sessionID)
	if errors.Is(err, repository.ErrTxConflict) {
		booking, err = h.Bookings.Book(ctx, acc.ID, sessionID)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, repository.ErrAlreadyBooked):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you already booked this session"})
		case errors.Is(err, repository.ErrNoSeats):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats left"})
		case errors.Is(err, repository.ErrTxConflict):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking conflict, try again"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	h.publishEvent(queue.EventBookingCreated, booking, acc.ID)
	return c.Redirect(http.StatusSeeOther, "/user/profile")
}

// CancelBooking handles GET /book/cancel/:booking_id.  Only the owner
// may cancel; foreign bookings read as not found upstream and forbidden
// here when the id is known.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	acc, err := currentAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	bookingID, err := strconv.ParseUint(c.Param("booking_id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.Cancel(ctx, acc.ID, bookingID)
	if errors.Is(err, repository.ErrTxConflict) {
		booking, err = h.Bookings.Cancel(ctx, acc.ID, bookingID)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
		case errors.Is(err, repository.ErrTxConflict):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "cancel conflict, try again"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}

	h.publishEvent(queue.EventBookingCancelled, booking, acc.ID)
	return c.Redirect(http.StatusSeeOther, "/user/profile")
}

// Profile handles GET /user/profile: the account plus its upcoming
// bookings.
func (h *BookingHandler) Profile(c echo.Context) error {
	acc, err := currentAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	items, err := h.Bookings.ListUpcomingByAccount(c.Request().Context(), acc.ID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username": acc.Username,
		"bookings": items,
	})
}

// BookingDetail handles GET /user/profile/bookings/:id.  The query is
// scoped to the account, so someone else's booking id reads as not found.
func (h *BookingHandler) BookingDetail(c echo.Context) error {
	acc, err := currentAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetDetailForAccount(c.Request().Context(), bookingID, acc.ID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detail})
}

// publishEvent ships the event to the broker off the request path.  A
// broker outage must never fail a committed booking, so the publish runs
// in its own goroutine with its own timeout and errors stay in the logs.
func (h *BookingHandler) publishEvent(name string, b *model.Booking, accountID uint64) {
	s, err := h.Sessions.GetByID(context.Background(), b.SessionID)
	if err != nil {
		return
	}
	ev := queue.BookingEvent{
		Event:      name,
		BookingID:  b.ID,
		AccountID:  accountID,
		SessionID:  b.SessionID,
		Movie:      s.Movie,
		Cinema:     s.Cinema,
		Hall:       s.Hall,
		StartsAt:   s.StartsAt.UTC().Format("2006-01-02 15:04:05"),
		SeatsLeft:  s.Seats,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepub.PublishBookingEvent(ctx, ev)
	}()
}
