package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/slotbook/pkg/cache"
	"github.com/diagnosis/slotbook/pkg/config"
	"github.com/diagnosis/slotbook/pkg/database"
	"github.com/diagnosis/slotbook/pkg/events"
	"github.com/diagnosis/slotbook/pkg/logger"
	mw "github.com/diagnosis/slotbook/pkg/middleware"
	"github.com/diagnosis/slotbook/services/bookings/internal/handlers"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
	"github.com/diagnosis/slotbook/services/bookings/internal/service"
)

type repositories struct {
	bookings  repository.BookingRepository
	schedules repository.ScheduleRepository
	forms     repository.FormRepository
	customers repository.CustomerRepository
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var checks []mw.ReadyCheck

	// Storage: PostgreSQL when configured, process memory otherwise
	var repos repositories
	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		repos = postgresRepositories(pool)
		checks = append(checks, mw.ReadyCheck{Name: "postgres", Check: pool.Ping})
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		repos = repositories{
			bookings:  repository.NewMemoryBookingRepository(),
			schedules: repository.NewMemoryScheduleRepository(nil),
			forms:     repository.NewMemoryFormRepository(),
			customers: repository.NewMemoryCustomerRepository(),
		}
	}

	// Redis backs the schedule cache, idempotency replay and rate limiting
	local := cache.NewMemoryStore()
	var (
		idemStore   mw.IdempotencyStore = local
		rateCounter mw.RateCounter      = local
	)
	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()

		store := cache.NewRedisStore(rdb, "slotbook")
		repos.schedules = repository.NewCachedScheduleRepository(repos.schedules, store, cfg.Redis.ScheduleTTL)
		idemStore = store
		rateCounter = store
		checks = append(checks, mw.ReadyCheck{Name: "redis", Check: store.Ready})
	}

	// Event bus
	var eventBus events.Publisher = events.NopBus{}
	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		eventBus = bus
		checks = append(checks, mw.ReadyCheck{Name: "nats", Check: bus.Ready})
	}
	defer eventBus.Close()

	// Initialize services
	bookingService := service.NewBookingService(repos.bookings, repos.schedules, repos.forms, repos.customers, eventBus, cfg.Bookings)
	scheduleService := service.NewScheduleService(repos.schedules, eventBus)
	availabilityService := service.NewAvailabilityService(repos.bookings, repos.schedules, cfg.Bookings)
	formService := service.NewFormService(repos.forms, eventBus)
	customerService := service.NewCustomerService(repos.customers, eventBus)

	if cfg.Bookings.SeedDefaults {
		if _, err := scheduleService.SeedDefault(ctx); err != nil {
			logger.Error("Failed to seed schedule", "error", err)
			os.Exit(1)
		}
		if _, err := formService.SeedDefaults(ctx); err != nil {
			logger.Error("Failed to seed booking forms", "error", err)
			os.Exit(1)
		}
	}

	h := handlers.New(bookingService, scheduleService, availabilityService, formService, customerService)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("bookings"))
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(mw.CORS(cfg.CORS.AllowedOrigins))

	r.Get("/healthz", mw.Health)
	r.Get("/readyz", mw.Ready(checks...))

	limiter := mw.NewRateLimiter(rateCounter, mw.RateLimitConfig{
		Requests: cfg.Bookings.CreateRateLimit,
		Window:   cfg.Bookings.CreateRateWindow,
	})
	h.Routes(r,
		limiter.Middleware(),
		mw.IdempotencyMiddleware(idemStore, cfg.Redis.IdempotencyTTL),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down bookings service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Bookings service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting bookings service", "port", cfg.Server.Port, "timezone", cfg.Bookings.Timezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Bookings service error", "error", err)
		os.Exit(1)
	}
	<-done
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		bookings:  repository.NewBookingRepository(pool),
		schedules: repository.NewScheduleRepository(pool),
		forms:     repository.NewFormRepository(pool),
		customers: repository.NewCustomerRepository(pool),
	}
}
