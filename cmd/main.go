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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	createBulkSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_bulk_slots"
	deleteSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_slots"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getBusyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_busy"
	getCalendarStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_calendar_status"
	getHostBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_host_bookings"
	getOffersHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_offers"
	getPublicAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_public_availability"
	icalFeedHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/ical_feed"
	insertSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/insert_slot"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/googlecalendar"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/mailer"
	calendarRetryJob "github.com/m04kA/SMC-SchedulingService/internal/jobs/calendar_retry"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	enrichmentService "github.com/m04kA/SMC-SchedulingService/internal/service/enrichment"
	feedService "github.com/m04kA/SMC-SchedulingService/internal/service/feed"
	hostsService "github.com/m04kA/SMC-SchedulingService/internal/service/hosts"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	createBulkSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_bulk_slots"
	getOffersUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_offers"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/slotid"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

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

	log.Info("Starting SMC-SchedulingService...")

	// Метрики (nil при выключенных, все методы nil-safe)
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
	db.SetConnMaxLifetime(config.Seconds(cfg.Database.ConnMaxLifetime))

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории и инфраструктура
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	slotRepository := availabilityRepo.NewRepository(wrappedDB)
	hostRepository := hostRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	locker := keylock.New()
	idGenerator := slotid.NewUUIDGenerator()

	// Интеграции
	calendarClient := googlecalendar.NewClient(googlecalendar.Config{
		ClientID:     cfg.GoogleCalendar.ClientID,
		ClientSecret: cfg.GoogleCalendar.ClientSecret,
		RedirectURL:  cfg.GoogleCalendar.RedirectURL,
		Timeout:      config.Seconds(cfg.GoogleCalendar.Timeout),
	}, log)
	mailClient := mailer.NewClient(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  config.Seconds(cfg.SMTP.Timeout),
	})
	log.Info("Integrations initialized (google_calendar=%t, smtp=%t)", calendarClient.Enabled(), mailClient.Enabled())

	// Сервисы
	availabilitySvc := availabilityService.NewService(slotRepository, hostRepository, idGenerator, locker, txMgr, log)
	bookingSvc := bookingsService.NewService(bookingRepository, hostRepository, log)
	hostSvc := hostsService.NewService(hostRepository, log)
	feedSvc := feedService.NewService(
		bookingRepository,
		slotRepository,
		hostRepository,
		feedService.NewBuilder(cfg.Feed.ProductID, cfg.Feed.UIDDomain),
		log,
	)
	enrichmentSvc := enrichmentService.NewService(
		bookingRepository,
		hostRepository,
		calendarClient,
		mailClient,
		metricsCollector,
		log,
	).WithTimeout(config.Seconds(cfg.Enrichment.Timeout))

	// Use cases
	createBulkSlotsUseCase := createBulkSlotsUC.NewUseCase(
		slotRepository,
		hostRepository,
		idGenerator,
		locker,
		txMgr,
		metricsCollector,
		log,
	)
	getOffersUseCase := getOffersUC.NewUseCase(
		hostRepository,
		slotRepository,
		bookingRepository,
		txMgr,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		hostRepository,
		slotRepository,
		enrichmentSvc,
		locker,
		txMgr,
		metricsCollector,
		log,
	)

	// Фоновый повтор событий календаря
	var retryJob *calendarRetryJob.Job
	if cfg.Jobs.CalendarRetryEnabled {
		retryJob, err = calendarRetryJob.New(
			cfg.Jobs.CalendarRetrySpec,
			enrichmentSvc,
			log,
			config.Seconds(cfg.Jobs.CalendarRetryTimeout),
		)
		if err != nil {
			log.Fatal("Failed to schedule calendar retry job: %v", err)
		}
		retryJob.Start()
	}

	// Ограничитель частоты публичных запросов
	var redisClient *redis.Client
	var limiter middleware.Limiter
	trustedProxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
	}
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Enabled {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Warn("Redis is unreachable at %s, rate limiter will rely on fail_open=%t: %v",
					cfg.Redis.Addr, cfg.RateLimit.FailOpen, err)
			}
			cancelPing()
			limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window(), cfg.RateLimit.KeyPrefix)
			log.Info("Rate limiter: redis fixed window (%d req / %ds)", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
		} else {
			limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window())
			log.Info("Rate limiter: in-memory token bucket (%d req / %ds)", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
		}
	}

	// Handlers
	createBulkSlots := createBulkSlotsHandler.NewHandler(createBulkSlotsUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	insertSlot := insertSlotHandler.NewHandler(availabilitySvc, log)
	deleteSlots := deleteSlotsHandler.NewHandler(availabilitySvc, log)
	getHostBookings := getHostBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCalendarStatus := getCalendarStatusHandler.NewHandler(hostSvc, log)
	icalFeed := icalFeedHandler.NewHandler(feedSvc, log)
	getPublicAvailability := getPublicAvailabilityHandler.NewHandler(availabilitySvc, log)
	getOffers := getOffersHandler.NewHandler(getOffersUseCase, log)
	getBusy := getBusyHandler.NewHandler(bookingSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница бронирования хоста)
	// ============================================================

	public := api.PathPrefix("/hosts/{username}").Subrouter()
	if limiter != nil {
		public.Use(middleware.RateLimit(limiter, log, cfg.RateLimit.FailOpen, trustedProxies))
	}

	public.HandleFunc("/availability", getPublicAvailability.Handle).Methods(http.MethodGet)
	public.HandleFunc("/availability.ics", icalFeed.HandleAvailability).Methods(http.MethodGet)
	public.HandleFunc("/offers", getOffers.Handle).Methods(http.MethodGet)
	public.HandleFunc("/bookings", getBusy.Handle).Methods(http.MethodGet)
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Host-ID header)
	// ============================================================

	protected := api.PathPrefix("/me").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание ---
	protected.HandleFunc("/availability/bulk", createBulkSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/availability", insertSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/availability/days/{day}", deleteSlots.HandleByDay).Methods(http.MethodDelete)
	protected.HandleFunc("/availability/slots/{slotId}", deleteSlots.HandleBySlotID).Methods(http.MethodDelete)
	protected.HandleFunc("/availability/types/{slotType}", deleteSlots.HandleByType).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", getHostBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings.ics", icalFeed.HandleBookings).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// --- Интеграции ---
	protected.HandleFunc("/calendar-status", getCalendarStatus.Handle).Methods(http.MethodGet)

	handler := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxAge:         cfg.CORS.MaxAge,
		Debug:          cfg.CORS.Debug,
	})(r)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Seconds(cfg.Server.IdleTimeout),
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if retryJob != nil {
		retryJob.Stop(shutdownCtx)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
