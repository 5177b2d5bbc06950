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

	createBookingHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/get_customer_bookings"
	manageBlocksHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/manage_blocks"
	rescheduleBookingHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/reschedule_booking"
	transitionBookingHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/transition_booking"
	updateBookingHandler "github.com/m04kA/SMC-WorkshopService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkshopService/internal/config"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/cache"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/events"
	blocksetRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/blockset"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	pricingClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/pricing"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	availabilityService "github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-WorkshopService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-WorkshopService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/get_availability"
	manageBlocksUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/manage_blocks"
	rescheduleBookingUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/reschedule_booking"
	transitionBookingUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/transition_booking"
	updateBookingUC "github.com/m04kA/SMC-WorkshopService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-WorkshopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/logger"
	"github.com/m04kA/SMC-WorkshopService/pkg/metrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-WorkshopService/pkg/txmanager"
)

// TxManager общий интерфейс менеджеров транзакций (с метриками и без)
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

	log.Info("Starting SMC-WorkshopService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	staffCli := staffClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	pricingCli := pricingClient.NewClient(
		cfg.PricingService.URL,
		time.Duration(cfg.PricingService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s timeout=%ds, PricingService=%s timeout=%ds)",
		cfg.StaffService.URL, cfg.StaffService.Timeout, cfg.PricingService.URL, cfg.PricingService.Timeout)

	// Инициализируем Kafka продюсер доменных событий (если включен)
	var producer *events.Producer
	if cfg.Events.Enabled {
		producer = events.NewProducer(cfg.Events.Brokers, cfg.Events.Topic)
		defer producer.Close()
		log.Info("Event producer initialized (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}

	// Инициализируем Redis кэш представлений занятости (если включен)
	var dayCache *cache.AvailabilityCache
	if cfg.Cache.Enabled {
		dayCache = cache.New(
			cfg.Cache.Addr,
			cfg.Cache.Password,
			cfg.Cache.DB,
			time.Duration(cfg.Cache.TTL)*time.Second,
		)
		defer dayCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := dayCache.Ping(pingCtx); err != nil {
			log.Warn("Redis is unreachable, availability cache degraded: %v", err)
		} else {
			log.Info("Availability cache initialized (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTL)
		}
		cancel()
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		blocksetRepository *blocksetRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		blocksetRepository = blocksetRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		blocksetRepository = blocksetRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	var availabilitySvc *availabilityService.Service
	if dayCache != nil {
		availabilitySvc = availabilityService.NewService(bookingRepository, blocksetRepository, dayCache, log)
	} else {
		availabilitySvc = availabilityService.NewService(bookingRepository, blocksetRepository, nil, log)
	}
	scheduleSvc := scheduleService.NewService(blocksetRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, staffCli, log)

	// Продюсер опционален: nil-интерфейс отключает публикацию событий
	var eventProducer createBookingUC.EventProducer
	if producer != nil {
		eventProducer = producer
	}

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		pricingCli,
		staffCli,
		eventProducer,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(availabilitySvc, log)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		blocksetRepository,
		staffCli,
		eventProducer,
		availabilitySvc,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		pricingCli,
		staffCli,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		blocksetRepository,
		staffCli,
		availabilitySvc,
		txMgr,
		log,
	)
	manageBlocksUseCase := manageBlocksUC.NewUseCase(
		scheduleSvc,
		staffCli,
		eventProducer,
		availabilitySvc,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	manageBlocks := manageBlocksHandler.NewHandler(manageBlocksUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Занятость на дату и проверка конкретного слота
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи (запись на прием или заказ запчастей)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Правка полей записи (основные поля или отчёт)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса записи
	protected.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)

	// Изменение расписания: кандидаты, подтверждение слота, исполнитель
	protected.HandleFunc("/bookings/{bookingId}/schedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Блокировки слотов (для координаторов) ---
	protected.HandleFunc("/blocks", manageBlocks.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
