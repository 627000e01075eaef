package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/database"
	"github.com/iliyamo/cinema-session-booking/internal/handler"
	"github.com/iliyamo/cinema-session-booking/internal/queue"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/router"
	"github.com/iliyamo/cinema-session-booking/internal/token"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	sessions := repository.NewSessionRepo(db)
	accounts := repository.NewAccountRepo(db)
	bookings := repository.NewBookingRepo(db)

	tokens := token.NewService(cfg.UserJWTSecret, cfg.AdminJWTSecret, cfg.TokenTTLMin)

	authH := handler.NewAuthHandler(cfg, accounts, tokens)
	catalogH := handler.NewCatalogHandler(sessions)
	bookingH := handler.NewBookingHandler(bookings, sessions)
	adminH := handler.NewAdminHandler(sessions)

	// Redis backs the rate limiter and the response cache.  A nil client
	// turns both into no-ops, so the service runs without Redis.
	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	// The consumer reconnects on its own; a broker outage only costs the
	// audit log, never a booking.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, catalogH, cacheCfg, rdb)
	router.RegisterUser(e, authH, bookingH, tokens, accounts, rlCfg, rdb)
	router.RegisterAdmin(e, authH, adminH, tokens, cfg.Admins, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
