package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/restomap/booking-backend/internal/config"
	"github.com/restomap/booking-backend/internal/database"
	"github.com/restomap/booking-backend/internal/handler"
	"github.com/restomap/booking-backend/internal/importer"
	"github.com/restomap/booking-backend/internal/middleware"
	"github.com/restomap/booking-backend/internal/notify"
	"github.com/restomap/booking-backend/internal/queue"
	"github.com/restomap/booking-backend/internal/repository"
	"github.com/restomap/booking-backend/internal/router"
	"github.com/restomap/booking-backend/internal/service"
)

func main() {
	// .env is optional; in containers the variables come from the runtime.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	pub, err := queue.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer pub.Close()

	// Redis is optional infrastructure. When it is absent the rate
	// limiter and the response cache degrade to pass-through.
	rdb := config.NewRedisClient()

	members := repository.NewMemberRepo(db)
	venues := repository.NewVenueRepo(db)
	bookings := repository.NewBookingRepo(db)
	dispatches := repository.NewDispatchRepo(db)

	dispatcher := &service.Dispatcher{
		Pub:         pub,
		Records:     dispatches,
		OnlineQueue: cfg.OnlineQueue,
		CallQueue:   cfg.CallQueue,
		Timeout:     cfg.PublishTimeout,
	}
	fulfillment := &service.Fulfillment{
		Bookings: bookings,
		Members:  members,
		Notifier: notify.NewTelegramNotifier(cfg.BotToken, "", cfg.NotifyTimeout),
		Outcomes: service.OutcomeMap{
			SuccessCode: cfg.SuccessCode,
			FailureCode: cfg.FailureCode,
		},
	}
	reconciler := &service.Reconciler{
		Store:      dispatches,
		Dispatcher: dispatcher,
		Interval:   cfg.ReconcileInterval,
		MinAge:     cfg.ReconcileMinAge,
	}

	e := echo.New()
	e.HideBanner = true

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, members), cfg.JWTSecret)
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, venues, members, dispatcher), cfg.JWTSecret)
	router.RegisterVenues(e, handler.NewVenueHandler(venues), rateLimit, respCache)
	router.RegisterInternal(e,
		handler.NewCallbackHandler(fulfillment),
		handler.NewImportHandler(importer.New(venues)),
		cfg.InternalToken, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reconciler.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server: %v", err)
	}
	log.Println("shutdown complete")
}
