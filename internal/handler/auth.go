package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/middleware"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/token"
	"github.com/iliyamo/cinema-session-booking/internal/utils"
)

// AuthHandler bundles dependencies for credential endpoints of both
// principal kinds.  Admin credentials come from the configured map and
// never touch the accounts table.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Tokens   *token.Service
}

func NewAuthHandler(cfg config.Config, accounts *repository.AccountRepo, tokens *token.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Tokens: tokens}
}

// RegisterUser handles POST /user/register.  It validates the form,
// creates the account and logs the new user in by setting the user
// cookie, then redirects to the catalog.  An existing username yields 409.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if err := validateUsername(username); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validatePassword(password); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Accounts.Create(ctx, username, password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	raw, exp, err := h.Tokens.Issue(username, token.KindUser)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	setAuthCookie(c, middleware.UserCookieName, raw, exp)
	return c.Redirect(http.StatusSeeOther, "/")
}

// LoginUser handles POST /user/login.  Bad credentials are reported with
// a single message so usernames cannot be probed.
func (h *AuthHandler) LoginUser(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acc, err := h.Accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	raw, exp, err := h.Tokens.Issue(acc.Username, token.KindUser)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	setAuthCookie(c, middleware.UserCookieName, raw, exp)
	return c.Redirect(http.StatusSeeOther, "/")
}

// LogoutUser clears the user cookie.  The token itself stays valid until
// expiry; logout is advisory.
func (h *AuthHandler) LogoutUser(c echo.Context) error {
	clearAuthCookie(c, middleware.UserCookieName)
	return c.Redirect(http.StatusSeeOther, "/")
}

// LoginAdmin handles POST /admin/login against the configured admin map.
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	digest, ok := h.Cfg.Admins[username]
	if !ok || !utils.VerifyPassword(digest, password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	raw, exp, err := h.Tokens.Issue(username, token.KindAdmin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	setAuthCookie(c, middleware.AdminCookieName, raw, exp)
	return c.Redirect(http.StatusSeeOther, "/admin/panel")
}

// LoginPage is the landing target for the user gate's redirect.  The
// JSON API has no form to render, so it tells the client what to do.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "POST username and password to /user/login"})
}

// RegisterPage mirrors LoginPage for the registration flow.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "POST username and password to /user/register"})
}

// AdminLoginPage is the landing target for the admin gate's redirect.
func (h *AuthHandler) AdminLoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "POST username and password to /admin/login"})
}

// LogoutAdmin clears the admin cookie.
func (h *AuthHandler) LogoutAdmin(c echo.Context) error {
	clearAuthCookie(c, middleware.AdminCookieName)
	return c.Redirect(http.StatusSeeOther, "/")
}
