package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/handler"
	"github.com/iliyamo/cinema-session-booking/internal/middleware"
	"github.com/iliyamo/cinema-session-booking/internal/token"
)

// RegisterAdmin registers the admin surface.  The login endpoint shares
// the credential rate limiter with the user side; the panel and session
// management routes sit behind the admin gate, which only accepts tokens
// of the admin kind.
func RegisterAdmin(
	e *echo.Echo,
	a *handler.AuthHandler,
	adm *handler.AdminHandler,
	tokens *token.Service,
	admins map[string]string,
	rlCfg config.RateLimitConfig,
	rdb *redis.Client,
) {
	limiter := middleware.NewTokenBucket(rlCfg, rdb)

	e.GET("/admin/login", a.AdminLoginPage)
	e.POST("/admin/login", a.LoginAdmin, limiter)
	e.GET("/admin/logout", a.LogoutAdmin)

	gate := middleware.AdminAuth(tokens, admins)
	g := e.Group("/admin", gate)
	g.GET("/panel", adm.Panel)
	g.POST("/add-session", adm.AddSession)
	g.POST("/delete-session/:id", adm.DeleteSession)
}
