package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/middleware"
	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// currentAccount extracts the authenticated account placed in context by
// the user gate.  Handlers behind the gate can rely on it being present;
// an absence means the route was wired without the gate.
func currentAccount(c echo.Context) (model.Account, error) {
	v := c.Get(middleware.ContextAccountKey)
	acc, ok := v.(model.Account)
	if !ok {
		return model.Account{}, errors.New("no authenticated account in context")
	}
	return acc, nil
}

// setAuthCookie writes an httpOnly auth cookie.  Secure/SameSite are left
// to the deployment.
func setAuthCookie(c echo.Context, name, value string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
	})
}

// clearAuthCookie expires an auth cookie immediately.
func clearAuthCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
