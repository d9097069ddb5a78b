package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/goevent/event-booking/internal/config"
	"github.com/goevent/event-booking/internal/database"
	"github.com/goevent/event-booking/internal/handler"
	"github.com/goevent/event-booking/internal/model"
	"github.com/goevent/event-booking/internal/queue"
	"github.com/goevent/event-booking/internal/router"
	"github.com/goevent/event-booking/internal/service"
	"github.com/goevent/event-booking/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment
	cfg := config.Load()

	db, err := database.Open(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; catalog cache and rate limiting disabled")
	}

	// One store per container, bound at composition time.
	events := store.NewMongo[model.Event](db)
	bookings := store.NewMongo[model.Booking](db)
	users := store.NewMongo[model.User](db)

	var notifier service.Notifier
	if cfg.AMQPURL != "" {
		pub, err := queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("rabbitmq unavailable; booking notifications disabled: %v", err)
		} else {
			defer pub.Close()
			notifier = pub
			go func() {
				if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
					log.Printf("booking consumer stopped: %v", err)
				}
			}()
		}
	}

	var cache *service.EventCache
	if cfg.CacheTTLSec > 0 {
		cache = service.NewEventCache(rdb, time.Duration(cfg.CacheTTLSec)*time.Second)
	}
	eventSvc := service.NewEventService(events, cache)
	bookingSvc := service.NewBookingService(events, bookings, notifier, cache)
	authSvc := service.NewAuthService(users, cfg.BcryptCost)

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewAuthHandler(cfg, authSvc),
		handler.NewEventHandler(eventSvc),
		handler.NewBookingHandler(bookingSvc),
		cfg.JWTSecret, rdb, cfg.RateLimit,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
