package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hikewise/trail-pass-reservation/internal/config"
	"github.com/hikewise/trail-pass-reservation/internal/database"
	"github.com/hikewise/trail-pass-reservation/internal/handler"
	"github.com/hikewise/trail-pass-reservation/internal/queue"
	"github.com/hikewise/trail-pass-reservation/internal/repository"
	"github.com/hikewise/trail-pass-reservation/internal/router"
	"github.com/hikewise/trail-pass-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting disabled")
	}

	store := repository.NewStore(db)
	clock := service.SystemClock()

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.AmqpURL != "" || cfg.Env != "test" {
		notifier = queue.NewPublisher(cfg.AmqpURL)
		go func() {
			if err := queue.StartMailConsumer(cfg.AmqpURL); err != nil {
				log.Printf("mail-consumer stopped: %v", err)
			}
		}()
	}

	eligibility := service.NewEligibilityChecker(store)
	passIDs := service.NewPassIDGenerator(store)
	allocator := service.NewOrderAllocator(store, eligibility, passIDs, notifier, clock)
	lifecycle := service.NewPassLifecycle(store, notifier, clock, cfg.LockWindowHours)
	reconciler := service.NewInventoryReconciler(store, notifier, clock)

	e := echo.New()
	router.Register(e, router.Handlers{
		Booking:      handler.NewBookingHandler(allocator),
		Pass:         handler.NewPassHandler(lifecycle),
		Admin:        handler.NewAdminHandler(reconciler, lifecycle),
		Availability: handler.NewAvailabilityHandler(store),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
