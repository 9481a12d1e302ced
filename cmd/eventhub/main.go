package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"eventhub/internal/auth"
	"eventhub/internal/cache"
	categories_api "eventhub/internal/categories/api"
	checkout_api "eventhub/internal/checkout/api"
	events_api "eventhub/internal/events/api"
	orders_api "eventhub/internal/orders/api"
	users_api "eventhub/internal/users/api"

	"eventhub/internal/categories"
	categories_db "eventhub/internal/categories/db"
	"eventhub/internal/checkout"
	"eventhub/internal/config"
	"eventhub/internal/database/migrations"
	"eventhub/internal/events"
	events_db "eventhub/internal/events/db"
	"eventhub/internal/kafka"
	"eventhub/internal/logger"
	"eventhub/internal/orders"
	orders_db "eventhub/internal/orders/db"
	"eventhub/internal/orders/qr"
	"eventhub/internal/users"
	users_db "eventhub/internal/users/db"
)

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func runMigrations(ctx context.Context, bunDB *bun.DB, log *logger.Logger) {
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		// No SQL migrations around (local dev checkout), fall back to
		// creating the schema from the models.
		log.Warn("DATABASE", fmt.Sprintf("Migrations directory %s not found, bootstrapping schema from models", migrationsDir))
		if err := bootstrapSchema(ctx, bunDB); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Schema bootstrap failed: %v", err))
		}
		return
	}

	runner := migrations.NewRunner(bunDB, migrations.Options{
		MigrationsDir: migrationsDir,
	})
	if err := runner.Run(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}

	if version, err := runner.Version(); err == nil {
		log.Info("DATABASE", fmt.Sprintf("Schema at version %d", version))
	}
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting eventhub API initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	runMigrations(ctx, bunDB, log)

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		requiredTopics := []string{
			cfg.Kafka.Topics.EventCreated,
			cfg.Kafka.Topics.EventUpdated,
			cfg.Kafka.Topics.EventDeleted,
			cfg.Kafka.Topics.OrderCreated,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		log.Warn("KAFKA", "Kafka disabled, domain events will not be published")
	}

	eventCache := cache.New(redisClient, cfg.Redis.EventTTL)

	userService := users.NewService(&users_db.DB{Bun: bunDB}, log)
	categoryService := categories.NewService(&categories_db.DB{Bun: bunDB}, log)

	var publisher events.Publisher
	if producer != nil {
		publisher = producer
	}

	eventService := events.NewService(
		&events_db.DB{Bun: bunDB},
		&categories_db.DB{Bun: bunDB},
		eventCache,
		publisher,
		cfg.Kafka.Topics,
		log,
	)

	var orderPublisher orders.Publisher
	if producer != nil {
		orderPublisher = producer
	}

	ticketSecret := os.Getenv("TICKET_QR_SECRET")
	if ticketSecret == "" {
		ticketSecret = "eventhub-dev-secret"
		log.Warn("CONFIG", "TICKET_QR_SECRET not set, using development default")
	}

	orderService := orders.NewService(
		&orders_db.DB{Bun: bunDB},
		orderPublisher,
		cfg.Kafka.Topics.OrderCreated,
		qr.NewGenerator(ticketSecret),
		log,
	)

	checkoutService := checkout.NewService(
		eventService,
		orderService,
		&users_db.DB{Bun: bunDB},
		cfg.Stripe,
		log,
	)

	userHandler := &users_api.Handler{UserService: userService, Logger: log}
	categoryHandler := &categories_api.Handler{CategoryService: categoryService, Logger: log}
	eventHandler := &events_api.Handler{
		EventService: eventService,
		Users:        &users_db.DB{Bun: bunDB},
		Logger:       log,
	}
	orderHandler := &orders_api.Handler{OrderService: orderService, Logger: log}
	checkoutHandler := &checkout_api.Handler{CheckoutService: checkoutService, Logger: log}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- Public Routes ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", eventHandler.GetAllEvents)
		r.Get("/events/{eventId}", eventHandler.GetEvent)
		r.Get("/events/{eventId}/related", eventHandler.GetRelatedEvents)
		r.Get("/categories", categoryHandler.GetAllCategories)
		r.Post("/webhooks/stripe", checkoutHandler.StripeWebhook)
	})
	log.Info("ROUTER", "Public event, category and webhook routes registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.Issuer))
		log.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Post("/events", eventHandler.CreateEvent)
			r.Put("/events/{eventId}", eventHandler.UpdateEvent)
			r.Delete("/events/{eventId}", eventHandler.DeleteEvent)
			r.Get("/events/{eventId}/orders", orderHandler.GetOrdersByEvent)

			r.Post("/categories", categoryHandler.CreateCategory)

			r.Post("/users", userHandler.CreateUser)
			r.Get("/users/{userId}", userHandler.GetUser)
			r.Put("/users/auth/{authId}", userHandler.UpdateUser)
			r.Delete("/users/{userId}", userHandler.DeleteUser)
			r.Get("/users/{userId}/events", eventHandler.GetEventsByOrganizer)
			r.Get("/users/{userId}/orders", orderHandler.GetOrdersByUser)

			r.Get("/orders/{orderId}/ticket", orderHandler.GetTicket)
			r.Post("/checkout", checkoutHandler.Checkout)
		})
		log.Info("ROUTER", "Protected routes registered under /api")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("eventhub API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "eventhub API shutdown complete")
	}
}
