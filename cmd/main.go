package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	createDamageHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/create_damage"
	createMaintenanceHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/create_maintenance"
	createRentalHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/create_rental"
	deleteDamageHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/delete_damage"
	deleteMaintenanceHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/delete_maintenance"
	deleteRentalHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/delete_rental"
	extendRentalHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/extend_rental"
	forceVehicleStatusHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/force_vehicle_status"
	getDamageHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/get_damage"
	getMaintenanceHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/get_maintenance"
	getRentalHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/get_rental"
	getVehicleHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/get_vehicle"
	resyncStatusesHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/resync_vehicle_statuses"
	searchAvailableHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/search_available_vehicles"
	transitionRentalHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/transition_rental"
	updateDamageHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/update_damage"
	updateMaintenanceHandler "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers/update_maintenance"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/middleware"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/config"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/integrations/notifier"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/jobs"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/conflicts"
	damagesService "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages"
	maintenanceService "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance"
	rentalsService "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals"
	statusService "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
	vehiclesService "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles"
	createRentalUC "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/create_rental"
	extendRentalUC "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/extend_rental"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/metrics"
)

type eventNotifier interface {
	Notify(ctx context.Context, kind domain.EventKind, payload interface{})
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting Carvo rentals engine...")
	log.Info("Configuration loaded from %s (driver=%s, same_day_turnover=%t, timezone=%s)",
		configPath, cfg.Database.Driver, cfg.Booking.AllowSameDayTurnover, cfg.Booking.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к хранилищу
	store, err := openStorage(cfg, metricsCollector, log, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Redis (канал уведомлений)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v (publishing fails until it is back)", cfg.Redis.Address, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Address)
		}
		cancel()
	}

	// Уведомления отправляются после коммита и не влияют на результат операции
	var (
		events     eventNotifier = notifier.Noop{}
		dispatcher *notifier.Dispatcher
	)
	if cfg.Notifications.Enabled {
		var publishers []notifier.Publisher
		if redisClient != nil {
			publishers = append(publishers, notifier.NewRedisPublisher(redisClient, cfg.Notifications.Channel))
		}
		if cfg.Notifications.WebhookURL != "" {
			publishers = append(publishers, notifier.NewWebhookPublisher(cfg.Notifications.WebhookURL, cfg.Notifications.PublishTimeout()))
		}

		dispatcher = notifier.NewDispatcher(notifier.Config{
			QueueSize:      cfg.Notifications.QueueSize,
			RatePerSecond:  cfg.Notifications.RatePerSecond,
			Burst:          cfg.Notifications.Burst,
			PublishTimeout: cfg.Notifications.PublishTimeout(),
		}, publishers, metricsCollector, log)
		dispatcher.Start()
		events = dispatcher
		log.Info("Notifications enabled (%d publisher(s), channel=%s)", len(publishers), cfg.Notifications.Channel)
	}

	// Правила бронирования
	policy := domain.OverlapPolicy{AllowSameDayTurnover: cfg.Booking.AllowSameDayTurnover}
	pricing := domain.Pricing{
		DriverFeePerDay:    cfg.Pricing.DriverFeePerDay,
		InsuranceFeePerDay: cfg.Pricing.InsuranceFeePerDay,
	}
	clock := &statusService.RealTimeProvider{Location: cfg.Booking.Location()}

	// Инициализируем сервисы
	deriver := statusService.NewService(
		store.vehicles,
		store.rentals,
		store.damages,
		store.maintenance,
		metricsCollector,
		log,
	).WithTimeProvider(clock)

	resolver := conflicts.NewResolver(
		store.vehicles,
		store.rentals,
		store.damages,
		store.maintenance,
		policy,
		pricing,
		metricsCollector,
		log,
	)

	rentalSvc := rentalsService.NewService(
		store.rentals,
		store.vehicles,
		store.customers,
		deriver,
		store.txManager,
		events,
		metricsCollector,
		log,
	)
	damageSvc := damagesService.NewService(
		store.damages,
		store.vehicles,
		store.rentals,
		deriver,
		store.txManager,
		events,
		log,
	)
	maintenanceSvc := maintenanceService.NewService(
		store.maintenance,
		store.vehicles,
		deriver,
		store.txManager,
		events,
		log,
	)
	vehicleSvc := vehiclesService.NewService(
		store.vehicles,
		store.rentals,
		deriver,
		store.txManager,
		events,
		policy,
		log,
	).WithTimeProvider(clock)

	// Инициализируем use cases
	createRentalUseCase := createRentalUC.NewUseCase(
		store.rentals,
		store.customers,
		resolver,
		deriver,
		store.txManager,
		events,
		metricsCollector,
		log,
	)
	extendRentalUseCase := extendRentalUC.NewUseCase(
		store.rentals,
		store.vehicles,
		store.customers,
		resolver,
		deriver,
		store.txManager,
		events,
		metricsCollector,
		log,
	)

	// Фоновый пересчёт статусов (плановое обслуживание наступает без запросов к API)
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler, err = jobs.NewScheduler(
			cfg.Scheduler.StatusResyncCron,
			cfg.Booking.Location(),
			time.Duration(cfg.Scheduler.ResyncTimeout)*time.Second,
			vehicleSvc,
			log,
		)
		if err != nil {
			log.Fatal("Failed to create scheduler: %v", err)
		}
		scheduler.Start()
		log.Info("Status resync scheduled (%s), next run at %s",
			cfg.Scheduler.StatusResyncCron, scheduler.NextRun().Format(time.RFC3339))
	}

	// Инициализируем handlers
	createRental := createRentalHandler.NewHandler(createRentalUseCase, log)
	extendRental := extendRentalHandler.NewHandler(extendRentalUseCase, log)
	getRental := getRentalHandler.NewHandler(rentalSvc, log)
	transitionRental := transitionRentalHandler.NewHandler(rentalSvc, log)
	deleteRental := deleteRentalHandler.NewHandler(rentalSvc, log)
	getVehicle := getVehicleHandler.NewHandler(vehicleSvc, log)
	forceVehicleStatus := forceVehicleStatusHandler.NewHandler(vehicleSvc, log)
	searchAvailable := searchAvailableHandler.NewHandler(vehicleSvc, log)
	resyncStatuses := resyncStatusesHandler.NewHandler(vehicleSvc, log)
	createDamage := createDamageHandler.NewHandler(damageSvc, log)
	getDamage := getDamageHandler.NewHandler(damageSvc, log)
	updateDamage := updateDamageHandler.NewHandler(damageSvc, log)
	deleteDamage := deleteDamageHandler.NewHandler(damageSvc, log)
	createMaintenance := createMaintenanceHandler.NewHandler(maintenanceSvc, log)
	getMaintenance := getMaintenanceHandler.NewHandler(maintenanceSvc, log)
	updateMaintenance := updateMaintenanceHandler.NewHandler(maintenanceSvc, log)
	deleteMaintenance := deleteMaintenanceHandler.NewHandler(maintenanceSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Проверки живости и готовности
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		ready := true
		if err := store.ping(ctx); err != nil {
			checks["database"] = err.Error()
			ready = false
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				// Redis нужен только для уведомлений
				checks["redis"] = err.Error()
			}
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, status, checks)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Аренды ---
	api.HandleFunc("/rentals", createRental.Handle).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{rentalId}", getRental.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{rentalId}", deleteRental.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{rentalId}/status", transitionRental.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/rentals/{rentalId}/extend", extendRental.Handle).Methods(http.MethodPost)

	// --- Автомобили ---
	// /vehicles/available регистрируется раньше /vehicles/{vehicleId}
	api.HandleFunc("/vehicles/available", searchAvailable.Handle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{vehicleId}", getVehicle.Handle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{vehicleId}/status", forceVehicleStatus.Handle).Methods(http.MethodPut)

	// --- Повреждения ---
	api.HandleFunc("/damages", createDamage.Handle).Methods(http.MethodPost)
	api.HandleFunc("/damages/{damageId}", getDamage.Handle).Methods(http.MethodGet)
	api.HandleFunc("/damages/{damageId}", updateDamage.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/damages/{damageId}", deleteDamage.Handle).Methods(http.MethodDelete)

	// --- Обслуживание ---
	api.HandleFunc("/maintenance", createMaintenance.Handle).Methods(http.MethodPost)
	api.HandleFunc("/maintenance/{maintenanceId}", getMaintenance.Handle).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{maintenanceId}", updateMaintenance.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/maintenance/{maintenanceId}", deleteMaintenance.Handle).Methods(http.MethodDelete)

	// --- Администрирование ---
	api.HandleFunc("/admin/vehicles/resync", resyncStatuses.Handle).Methods(http.MethodPost)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if scheduler != nil {
		scheduler.Stop()
	}

	// Доотправляем накопленные уведомления
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			log.Warn("Notification queue not drained: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
