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
	"github.com/robfig/cron/v3"

	runQueueTickHandler "github.com/m04kA/BRB-QueueMonitor/internal/api/handlers/run_queue_tick"
	"github.com/m04kA/BRB-QueueMonitor/internal/api/middleware"
	"github.com/m04kA/BRB-QueueMonitor/internal/config"
	auditlogRepo "github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/auditlog"
	bookingRepo "github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/catalog"
	queueentryRepo "github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/queueentry"
	shopconfigRepo "github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/shopconfig"
	messengerClient "github.com/m04kA/BRB-QueueMonitor/internal/integrations/messenger"
	notificationsService "github.com/m04kA/BRB-QueueMonitor/internal/service/notifications"
	reservationsService "github.com/m04kA/BRB-QueueMonitor/internal/service/reservations"
	processQueueTickUC "github.com/m04kA/BRB-QueueMonitor/internal/usecase/process_queue_tick"
	"github.com/m04kA/BRB-QueueMonitor/pkg/dbmetrics"
	"github.com/m04kA/BRB-QueueMonitor/pkg/logger"
	"github.com/m04kA/BRB-QueueMonitor/pkg/metrics"
	"github.com/m04kA/BRB-QueueMonitor/pkg/simpletxmanager"
	"github.com/m04kA/BRB-QueueMonitor/pkg/txmanager"
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

	log.Info("Starting BRB-QueueMonitor...")
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

	// Клиент мессенджер-шлюза
	messenger := messengerClient.NewClient(
		cfg.Messenger.URL,
		time.Duration(cfg.Messenger.Timeout)*time.Second,
		log,
	)
	log.Info("Messenger client initialized (url=%s timeout=%ds)", cfg.Messenger.URL, cfg.Messenger.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		queueEntryRepository *queueentryRepo.Repository
		catalogRepository    *catalogRepo.Repository
		shopConfigRepository *shopconfigRepo.Repository
		auditLogRepository   *auditlogRepo.Repository
	)

	// Интерфейс transaction manager (используется в сервисе броней и тике)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		queueEntryRepository = queueentryRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		shopConfigRepository = shopconfigRepo.NewRepository(wrappedDB)
		auditLogRepository = auditlogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		queueEntryRepository = queueentryRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		shopConfigRepository = shopconfigRepo.NewRepository(db)
		auditLogRepository = auditlogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		bookingRepository,
		queueEntryRepository,
		auditLogRepository,
		txMgr,
		log,
	)
	notificationSvc := notificationsService.NewService(
		messenger,
		queueEntryRepository,
		auditLogRepository,
		notificationsService.Config{
			MinLeadMinutes:            cfg.Queue.NotifyMinLeadMinutes,
			MaxLeadMinutes:            cfg.Queue.NotifyMaxLeadMinutes,
			ConfirmationWindowMinutes: cfg.Queue.ConfirmationWindowMinutes,
		},
		log,
	)

	// Инициализируем use case тика очереди
	var tickMetrics processQueueTickUC.MetricsCollector
	if cfg.Metrics.Enabled {
		tickMetrics = metricsCollector
	}
	processQueueTick := processQueueTickUC.NewUseCase(
		queueEntryRepository,
		bookingRepository,
		catalogRepository,
		shopConfigRepository,
		reservationSvc,
		notificationSvc,
		txMgr,
		tickMetrics,
		processQueueTickUC.Tuning{
			HorizonHours:              cfg.Queue.HorizonHours,
			GridMinutes:               cfg.Queue.GridMinutes,
			SafetyMarginMinutes:       cfg.Queue.SafetyMarginMinutes,
			ConfirmationWindowMinutes: cfg.Queue.ConfirmationWindowMinutes,
		},
		log,
	)

	// Инициализируем handlers
	runQueueTick := runQueueTickHandler.NewHandler(processQueueTick, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check для оркестрации
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// Служебные ручки: ручной запуск тика внешним cron или оператором
	internal := r.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.InternalAuth(cfg.Server.InternalToken))
	internal.HandleFunc("/queue/tick", runQueueTick.Handle).Methods(http.MethodPost)

	// Встроенный планировщик тиков
	var scheduler *cron.Cron
	if cfg.Scheduler.Enabled {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Scheduler.Spec, func() {
			if _, err := processQueueTick.Execute(context.Background(), &processQueueTickUC.Request{}); err != nil {
				log.Error("Scheduled tick failed: %v", err)
			}
		})
		if err != nil {
			log.Fatal("Failed to register tick schedule %q: %v", cfg.Scheduler.Spec, err)
		}
		scheduler.Start()
		log.Info("Built-in tick scheduler started (spec=%q)", cfg.Scheduler.Spec)
	}

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

	// Останавливаем планировщик: дожидаемся завершения текущего тика
	if scheduler != nil {
		<-scheduler.Stop().Done()
		log.Info("Tick scheduler stopped")
	}

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
