package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/model"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
)

// AdminHandler exposes catalog management to the admin principal.  Routes
// using it are wired behind the admin gate, so every request here already
// carries a verified admin token.
type AdminHandler struct {
	Sessions *repository.SessionRepo
}

func NewAdminHandler(sessions *repository.SessionRepo) *AdminHandler {
	if sessions == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Sessions: sessions}
}

// formTimeLayout matches the date+time fields submitted by the panel form.
const formTimeLayout = "2006-01-02 15:04"

// Panel handles GET /admin/panel.  It lists every session, past ones
// included, so the admin can clean up.
func (h *AdminHandler) Panel(c echo.Context) error {
	sessions, err := h.Sessions.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	items := make([]sessionDetail, 0, len(sessions))
	for i := range sessions {
		items = append(items, toDetail(&sessions[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": items})
}

// AddSession handles POST /admin/add-session.  The form carries separate
// date and time fields.  Capacity is set here once; afterwards only the
// booking allocator may change it.
func (h *AdminHandler) AddSession(c echo.Context) error {
	movie := strings.TrimSpace(c.FormValue("movie"))
	cinema := strings.TrimSpace(c.FormValue("cinema"))
	hall := strings.TrimSpace(c.FormValue("hall"))
	description := c.FormValue("description")
	seats, _ := strconv.Atoi(c.FormValue("seats"))
	duration, _ := strconv.Atoi(c.FormValue("duration"))

	if err := validateSessionForm(movie, cinema, hall, seats, duration, description); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	startsAt, err := time.Parse(formTimeLayout, c.FormValue("date")+" "+c.FormValue("time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
	}

	s := &model.Session{
		Movie:       movie,
		Cinema:      cinema,
		Hall:        hall,
		StartsAt:    startsAt.UTC(),
		DurationMin: uint32(duration),
		Description: description,
		Seats:       uint32(seats),
	}
	if err := h.Sessions.Create(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/panel")
}

// DeleteSession handles POST /admin/delete-session/:id.  Dependent
// bookings are removed with the session in one transaction.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	if err := h.Sessions.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete session failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/panel")
}
