package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/handler"
	"github.com/iliyamo/cinema-session-booking/internal/middleware"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/token"
)

// RegisterUser registers the user-facing routes.  The credential
// endpoints (register, login) are rate limited; everything behind the
// user gate requires a valid user token, and the gate resolves the
// account before any handler runs.
func RegisterUser(
	e *echo.Echo,
	a *handler.AuthHandler,
	b *handler.BookingHandler,
	tokens *token.Service,
	accounts *repository.AccountRepo,
	rlCfg config.RateLimitConfig,
	rdb *redis.Client,
) {
	limiter := middleware.NewTokenBucket(rlCfg, rdb)

	e.POST("/user/register", a.RegisterUser, limiter)
	e.POST("/user/login", a.LoginUser, limiter)
	// Login pages are fetched by redirect targets; serve a stub so the
	// 303s from the gate land somewhere.
	e.GET("/user/login", a.LoginPage)
	e.GET("/user/register", a.RegisterPage)
	// Logout, book and cancel ride on GET: the flows are driven by plain
	// links and finish in a 303, matching the cookie-redirect style of the
	// rest of the surface.
	e.GET("/user/logout", a.LogoutUser)

	gate := middleware.UserAuth(tokens, accounts)
	g := e.Group("", gate)
	g.GET("/user/profile", b.Profile)
	g.GET("/user/profile/bookings/:id", b.BookingDetail)
	g.GET("/book/:session_id", b.Book)
	g.GET("/book/cancel/:booking_id", b.CancelBooking)
}
