package main // Entry point package

import (
	"context" // Context for the background workers
	"log"     // Logging library
	"time"    // Durations for hold window and reaper interval

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/clientxce/Pick-a-Padel/internal/clock"      // Wall clock abstraction
	"github.com/clientxce/Pick-a-Padel/internal/config"     // Internal config loader
	"github.com/clientxce/Pick-a-Padel/internal/database"   // MySQL connector
	"github.com/clientxce/Pick-a-Padel/internal/handler"    // HTTP handlers
	"github.com/clientxce/Pick-a-Padel/internal/payment"    // Razorpay client
	"github.com/clientxce/Pick-a-Padel/internal/queue"      // RabbitMQ publisher/consumer
	"github.com/clientxce/Pick-a-Padel/internal/repository" // Data access layer
	"github.com/clientxce/Pick-a-Padel/internal/router"     // Internal router setup
	"github.com/clientxce/Pick-a-Padel/internal/service"    // Booking and availability services
	"github.com/clientxce/Pick-a-Padel/internal/validator"  // Request validation
	"github.com/clientxce/Pick-a-Padel/internal/worker"     // Expiry reaper
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the service stays fully functional without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	courts := repository.NewCourtRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Payment gateway client
	gateway := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	clk := clock.NewSystem()

	// Services
	bookingSvc := service.NewBookingService(bookings, gateway, clk, cfg.RazorpayKeySecret,
		service.WithHoldDuration(time.Duration(cfg.HoldDurationMin)*time.Minute),
		service.WithCurrency(cfg.Currency),
		service.WithPublisher(queue.NewPublisher(cfg.AMQPURL)),
	)
	availSvc := service.NewAvailabilityService(courts, bookings, clk)

	// Background workers.  The reaper flips stale holds to EXPIRED; the
	// consumer drains booking.confirmed into the booking log.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reaper := worker.NewExpiryReaper(bookings, clk, time.Duration(cfg.ReaperIntervalSec)*time.Second)
	go reaper.Run(ctx)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()               // Create Echo instance
	e.Validator = validator.New() // Struct-tag request validation

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e,
		handler.NewCourtHandler(courts),
		handler.NewAvailabilityHandler(availSvc),
		config.LoadCacheConfig(), rdb)
	router.RegisterBookings(e,
		handler.NewBookingHandler(bookingSvc, users, cfg.RazorpayKeyID),
		cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
