package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/model"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
)

// CatalogHandler serves the public session catalog.
type CatalogHandler struct {
	Sessions *repository.SessionRepo
}

func NewCatalogHandler(sessions *repository.SessionRepo) *CatalogHandler {
	if sessions == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Sessions: sessions}
}

// sessionSummary is the listing shape: only the fields shown on the
// catalog page.
type sessionSummary struct {
	ID       uint64    `json:"id"`
	Movie    string    `json:"movie"`
	Cinema   string    `json:"cinema"`
	StartsAt time.Time `json:"starts_at"`
}

// sessionDetail is the full shape for a single session.
type sessionDetail struct {
	ID          uint64    `json:"id"`
	Movie       string    `json:"movie"`
	Cinema      string    `json:"cinema"`
	Hall        string    `json:"hall"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin uint32    `json:"duration_min"`
	Description string    `json:"description"`
	SeatsLeft   uint32    `json:"seats_left"`
}

func toDetail(s *model.Session) sessionDetail {
	return sessionDetail{
		ID:          s.ID,
		Movie:       s.Movie,
		Cinema:      s.Cinema,
		Hall:        s.Hall,
		StartsAt:    s.StartsAt,
		DurationMin: s.DurationMin,
		Description: s.Description,
		SeatsLeft:   s.Seats,
	}
}

// Home handles GET /.  It lists upcoming sessions sorted by start time.
func (h *CatalogHandler) Home(c echo.Context) error {
	sessions, err := h.Sessions.ListUpcoming(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	items := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionSummary{ID: s.ID, Movie: s.Movie, Cinema: s.Cinema, StartsAt: s.StartsAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": items})
}

// SessionDetail handles GET /sessions/:id.
func (h *CatalogHandler) SessionDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	s, err := h.Sessions.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"session": toDetail(s)})
}
