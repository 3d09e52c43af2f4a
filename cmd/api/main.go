package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/srgjo27/house_rental/internal/adapter/cache"
	"github.com/srgjo27/house_rental/internal/adapter/handler"
	"github.com/srgjo27/house_rental/internal/adapter/messaging"
	mongorepo "github.com/srgjo27/house_rental/internal/adapter/repository/mongo"
	"github.com/srgjo27/house_rental/internal/adapter/repository/postgres"
	"github.com/srgjo27/house_rental/internal/adapter/stream"
	"github.com/srgjo27/house_rental/internal/config"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/jobs"
	"github.com/srgjo27/house_rental/internal/platform/database"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type stores struct {
	properties ports.PropertyRepository
	bookings   ports.BookingRepository
	payments   ports.PaymentRepository
	customers  ports.CustomerRepository
	close      func()
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgresDB(cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to db after retries: %w", err)
		}

		if cfg.Postgres.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				db.Close()
				return nil, err
			}
		}

		return &stores{
			properties: postgres.NewPropertyRepository(db),
			bookings:   postgres.NewBookingRepository(db),
			payments:   postgres.NewPaymentRepository(db),
			customers:  postgres.NewCustomerRepository(db),
			close:      func() { db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}

		return &stores{
			properties: mongorepo.NewPropertyRepository(db),
			bookings:   mongorepo.NewBookingRepository(db),
			payments:   mongorepo.NewPaymentRepository(db),
			customers:  mongorepo.NewCustomerRepository(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				client.Disconnect(ctx)
			},
		}, nil
	}

	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func main() {
	config.LoadEnv(".env")
	cfg := config.Load()

	appLog := logger.New(logger.ParseLevel(cfg.LogLevel))

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStores(rootCtx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.close()

	log.Printf("Connecting to Redis at %s:%s...", cfg.RedisHost, cfg.RedisPort)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(rootCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")
	defer redisClient.Close()

	var events ports.PropertyEventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL, messaging.DefaultQueue, appLog)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		events = publisher
	} else {
		log.Println("RABBITMQ_URL not set, house events are dropped")
	}

	propertyCache := cache.NewPropertyCache(redisClient, cfg.CacheLocalTTL, appLog)
	inconsistencies := stream.NewRedisInconsistencyStream(redisClient)

	propertySync := services.NewPropertySync(store.properties, propertyCache, events, inconsistencies, appLog)
	bookingService := services.NewBookingService(store.properties, store.bookings, propertySync, appLog)
	paymentService := services.NewPaymentService(store.properties, store.bookings, store.payments, bookingService, propertySync, appLog)
	favoriteService := services.NewFavoriteService(store.customers, store.properties, appLog)
	customerService := services.NewCustomerService(store.customers, appLog)
	propertyService := services.NewPropertyService(store.properties, propertyCache, propertySync, appLog)
	reconciliationService := services.NewReconciliationService(store.properties, store.bookings, store.payments, inconsistencies, appLog)

	scheduler := cron.New()
	if err := jobs.InitCronJobs(rootCtx, scheduler, cfg.ReconcileSchedule, reconciliationService, appLog); err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}

	router := handler.NewRouter(handler.Handlers{
		Bookings:       handler.NewBookingHandler(bookingService, appLog),
		Payments:       handler.NewPaymentHandler(paymentService, appLog),
		Favorites:      handler.NewFavoriteHandler(favoriteService, appLog),
		Customers:      handler.NewCustomerHandler(customerService, appLog),
		Properties:     handler.NewPropertyHandler(propertyService, appLog),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService, appLog),
	}, cfg.JWTSecret)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port :%s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	<-scheduler.Stop().Done()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
