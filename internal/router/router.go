package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/handler"
	"github.com/iliyamo/cinema-session-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// The health check is used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated catalog endpoints.  These
// are the hottest read paths, so they sit behind the Redis response cache
// when a client is available; with rdb == nil the cache disables itself.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/", cat.Home, cache)
	e.GET("/sessions/:id", cat.SessionDetail, cache)
}
