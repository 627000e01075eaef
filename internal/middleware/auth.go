// Package middleware provides reusable HTTP middleware: the authentication
// gate for both principal kinds, Redis rate limiting and response caching.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/token"
)

// Cookie names, one per principal kind.  Both cookies carry the same token
// format; only the signing key differs, so presenting one to the other
// surface always fails verification.
const (
	UserCookieName  = "access_token_user"
	AdminCookieName = "access_token_admin"
)

// Login surfaces unauthenticated requests are redirected to.
const (
	UserLoginPath  = "/user/login"
	AdminLoginPath = "/admin/login"
)

// Context keys populated by the gates.
const (
	ContextAccountKey = "account"        // model.Account of the authenticated user
	ContextAdminKey   = "admin_username" // username of the authenticated admin
)

// UserAuth is the authentication gate for the user surface.  It reads the
// user cookie, verifies it against the user signing key and resolves the
// subject to an account record.  A missing, expired or forged token — or a
// token whose account no longer exists — redirects to the user login page
// before any handler (and therefore any store mutation) runs.  This gate is
// registered once per route group so every endpoint shares identical
// semantics.
func UserAuth(tokens *token.Service, accounts *repository.AccountRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(UserCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, UserLoginPath)
			}
			username, err := tokens.Verify(cookie.Value, token.KindUser)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, UserLoginPath)
			}
			// A token can outlive its account.
			acc, err := accounts.GetByUsername(c.Request().Context(), username)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, UserLoginPath)
			}
			c.Set(ContextAccountKey, acc)
			return next(c)
		}
	}
}

// AdminAuth is the authentication gate for the admin surface.  Admin
// principals come from the configured credential map, not the database, so
// the gate only checks that the token's subject is still a known admin.
func AdminAuth(tokens *token.Service, admins map[string]string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AdminCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, AdminLoginPath)
			}
			username, err := tokens.Verify(cookie.Value, token.KindAdmin)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, AdminLoginPath)
			}
			if _, ok := admins[username]; !ok {
				return c.Redirect(http.StatusSeeOther, AdminLoginPath)
			}
			c.Set(ContextAdminKey, username)
			return next(c)
		}
	}
}
