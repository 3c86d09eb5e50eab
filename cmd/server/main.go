package main // main starts the reservation HTTP server

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cinebook/movie-reservation/internal/booking"
	"github.com/cinebook/movie-reservation/internal/config"
	"github.com/cinebook/movie-reservation/internal/database"
	"github.com/cinebook/movie-reservation/internal/handler"
	"github.com/cinebook/movie-reservation/internal/queue"
	"github.com/cinebook/movie-reservation/internal/repository"
	"github.com/cinebook/movie-reservation/internal/router"
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Redis is optional; when unavailable the cache and rate limiter
	// middleware become pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	movies := repository.NewMovieRepo(db)
	schedules := repository.NewScheduleRepo(db)
	sheets := repository.NewSheetRepo(db)
	users := repository.NewUserRepo(db)
	reservations := repository.NewReservationRepo(db)

	svc := booking.New(schedules, sheets, reservations)
	h := handler.NewReservationHandler(movies, schedules, sheets, users, reservations, svc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterReservations(e, h, cfg, rdb)

	// Background consumer writes reservation.created events to the
	// audit log. It reconnects on its own; a broker outage never stops
	// the HTTP server.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	log.Printf("reservation server listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
