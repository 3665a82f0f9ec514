package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "viajes/internal/config"
	intdb "viajes/internal/db"
	router "viajes/internal/http"
	"viajes/internal/http/handlers"
	"viajes/internal/notifications"
	"viajes/internal/repositories"
	"viajes/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if err := env.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("database unavailable: %v", err)
	}
	defer db.Close()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := intdb.EnsureSchema(schemaCtx, db); err != nil {
		schemaCancel()
		log.Fatalf("schema setup failed: %v", err)
	}
	schemaCancel()

	userRepo := repositories.UserRepository{DB: db}
	tripRepo := repositories.TripRepository{DB: db}
	reservationRepo := repositories.ReservationRepository{DB: db}

	senders, closeSenders := buildSenders(env)
	defer closeSenders()

	dispatcher := notifications.NewDispatcher(services.ReceiptService{}, senders,
		notifications.WithWorkers(env.NotifyWorkers),
		notifications.WithQueueSize(env.NotifyQueueSize),
		notifications.WithMaxAttempts(env.NotifyMaxAttempts),
		notifications.WithReceiptsDir(env.ReceiptsDir),
	)
	dispatcher.Start()

	tokens := services.NewTokenService(env.JWTSecret, env.JWTTTL)
	handler := handlers.Handler{
		Accounts: services.NewAuthService(userRepo),
		Tokens:   tokens,
		Catalog:  services.CatalogService{Trips: tripRepo},
		Bookings: services.BookingService{
			Tx:           intdb.Transactor{DB: db},
			Trips:        tripRepo,
			Reservations: reservationRepo,
			Notifier:     dispatcher,
		},
		DB: db,
	}

	r := router.NewRouter(env, handler, tokens)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Printf("notification drain: %v", err)
	}

	log.Println("server stopped.")
}

// buildSenders picks the delivery channels that are configured. The log sender
// is the fallback so receipts are always accounted for.
func buildSenders(env intconfig.Env) ([]notifications.Sender, func()) {
	var senders []notifications.Sender
	closers := []func(){}

	if env.MailerSendAPIKey != "" && env.MailFromEmail != "" {
		senders = append(senders, notifications.NewMailerSendSender(env.MailerSendAPIKey, env.MailFromName, env.MailFromEmail))
	}

	if env.RabbitMQURL != "" {
		broker, err := notifications.NewBroker(env.RabbitMQURL, env.RabbitMQExchange)
		if err != nil {
			log.Printf("warning: rabbitmq disabled: %v", err)
		} else {
			senders = append(senders, broker)
			closers = append(closers, func() { _ = broker.Close() })
		}
	}

	if len(senders) == 0 {
		senders = append(senders, notifications.LogSender{})
	}

	return senders, func() {
		for _, c := range closers {
			c()
		}
	}
}
