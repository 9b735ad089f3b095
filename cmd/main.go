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
	_ "time/tzdata"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/cancel_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/get_booking"
	getCreatorBookingsHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/get_creator_bookings"
	getServiceAvailabilityHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/get_service_availability"
	getUserBookingsHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/get_user_bookings"
	requestBookingHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/request_booking"
	updateAvailabilityHandler "github.com/m04kA/SMC-SlotBooking/internal/api/handlers/update_availability"
	"github.com/m04kA/SMC-SlotBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SlotBooking/internal/config"
	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	availabilityCache "github.com/m04kA/SMC-SlotBooking/internal/infra/cache/availability"
	availabilityRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/availability"
	reservationRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/reservation"
	catalogClient "github.com/m04kA/SMC-SlotBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-SlotBooking/internal/integrations/events"
	paymentsClient "github.com/m04kA/SMC-SlotBooking/internal/integrations/payments"
	availabilityService "github.com/m04kA/SMC-SlotBooking/internal/service/availability"
	availabilityModels "github.com/m04kA/SMC-SlotBooking/internal/service/availability/models"
	reservationsService "github.com/m04kA/SMC-SlotBooking/internal/service/reservations"
	getAvailableSlotsUC "github.com/m04kA/SMC-SlotBooking/internal/usecase/get_available_slots"
	requestBookingUC "github.com/m04kA/SMC-SlotBooking/internal/usecase/request_booking"
	"github.com/m04kA/SMC-SlotBooking/internal/worker/expiry"
	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
	"github.com/m04kA/SMC-SlotBooking/pkg/metrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/txmanager"
)

// notifier общий для use case и сервиса набор событий
type notifier interface {
	NotifyBookingConfirmed(ctx context.Context, res *domain.Reservation) error
	NotifyBookingPending(ctx context.Context, res *domain.Reservation) error
	NotifyBookingCancelled(ctx context.Context, res *domain.Reservation) error
}

// scheduleStore хранилище расписаний: Postgres или Redis-кэш над ним
type scheduleStore interface {
	GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error)
	Upsert(ctx context.Context, schedule *domain.AvailabilitySchedule) (*domain.AvailabilitySchedule, error)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SlotBooking...")

	// Метрики (nil, если выключены - все методы безопасны)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	var schedules scheduleStore = availabilityRepo.NewRepository(wrappedDB)

	// Redis: кэш расписаний и очередь asynq
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if cfg.Cache.Enabled {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable, schedule cache will fall back to the database: %v", err)
		}
		pingCancel()

		schedules = availabilityCache.NewCache(
			schedules,
			redisClient,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			log,
		)
		log.Info("Schedule cache enabled (ttl=%ds)", cfg.Cache.TTLSeconds)
	}

	// Интеграционные клиенты
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	payments := paymentsClient.NewClient(
		cfg.Payments.SecretKey,
		cfg.Payments.Currency,
		log,
		paymentsClient.WithBackendURL(cfg.Payments.URL),
	)
	log.Info("Integration clients initialized (Catalog=%s timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)

	// События бронирований
	var bookingNotifier notifier = events.NopNotifier{}
	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()

		bookingNotifier = events.NewNotifier(publisher)
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}

	// Сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		bookingNotifier,
		log,
		reservationsService.WithMetrics(metricsCollector),
	)
	availabilitySvc := availabilityService.NewService(
		schedules,
		log,
		availabilityService.WithDefaults(availabilityModels.Defaults{
			SlotDurationMinutes: cfg.Booking.DefaultSlotDurationMinutes,
			BufferMinutes:       cfg.Booking.DefaultBufferMinutes,
			Timezone:            cfg.Booking.DefaultTimezone,
		}),
	)

	// Фоновое истечение pending бронирований (asynq)
	bookingOpts := []requestBookingUC.Option{requestBookingUC.WithMetrics(metricsCollector)}

	var (
		asynqServer    *asynq.Server
		asynqScheduler *asynq.Scheduler
	)

	if cfg.Expiry.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		asynqClient := asynq.NewClient(redisOpt)
		defer asynqClient.Close()
		bookingOpts = append(bookingOpts,
			requestBookingUC.WithExpiryScheduler(expiry.NewScheduler(asynqClient), cfg.Booking.PendingTTL()))

		asynqServer = asynq.NewServer(redisOpt, asynq.Config{Concurrency: cfg.Expiry.Concurrency})
		taskMux := asynq.NewServeMux()
		expiry.NewWorker(reservationSvc, cfg.Booking.PendingTTL(), log).Register(taskMux)
		if err := asynqServer.Start(taskMux); err != nil {
			log.Fatal("Failed to start expiry worker: %v", err)
		}

		asynqScheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
		if _, err := expiry.RegisterSweep(asynqScheduler, cfg.Expiry.SweepInterval); err != nil {
			log.Fatal("Failed to register expiry sweep: %v", err)
		}
		if err := asynqScheduler.Start(); err != nil {
			log.Fatal("Failed to start expiry scheduler: %v", err)
		}
		log.Info("Pending expiry enabled (ttl=%s, sweep=%s)", cfg.Booking.PendingTTL(), cfg.Expiry.SweepInterval)
	}

	// Подтверждение оплаты из брокера
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if cfg.Events.Enabled {
		consumer, err := events.NewSettlementConsumer(
			cfg.Events.URL,
			cfg.Events.Exchange,
			cfg.Events.SettlementQueue,
			reservationSvc,
			log,
		)
		if err != nil {
			log.Fatal("Failed to start settlement consumer: %v", err)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Run(consumerCtx); err != nil {
				log.Error("Settlement consumer stopped: %v", err)
			}
		}()
		log.Info("Settlement consumer listening on queue %s", cfg.Events.SettlementQueue)
	}

	// Use cases
	requestBookingUseCase := requestBookingUC.NewUseCase(
		reservationRepository,
		schedules,
		catalog,
		payments,
		bookingNotifier,
		txMgr,
		log,
		bookingOpts...,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		schedules,
		catalog,
		log,
		getAvailableSlotsUC.WithMaxWindowDays(cfg.Booking.MaxWindowDays),
	)

	// Handlers
	requestBooking := requestBookingHandler.NewHandler(requestBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getServiceAvailability := getServiceAvailabilityHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(reservationSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(reservationSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(reservationSvc, log)
	getCreatorBookings := getCreatorBookingsHandler.NewHandler(reservationSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты автора на день
	api.HandleFunc("/creators/{creatorId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Свободные слоты услуги за окно дат
	api.HandleFunc("/services/{serviceId}/availability", getServiceAvailability.Handle).Methods(http.MethodGet)

	// Расписание автора
	api.HandleFunc("/creators/{creatorId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	bookingCreate := http.Handler(http.HandlerFunc(requestBooking.Handle))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		bookingCreate = limiter.Middleware(bookingCreate)
		log.Info("Rate limit for POST /bookings: %.2f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	protected.Handle("/bookings", bookingCreate).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет автора ---
	protected.HandleFunc("/creators/{creatorId}/bookings", getCreatorBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/creators/{creatorId}/availability", updateAvailability.Handle).Methods(http.MethodPut)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopConsumer()
	if asynqScheduler != nil {
		asynqScheduler.Shutdown()
	}
	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
