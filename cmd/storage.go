package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/config"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	customerRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/customer"
	damageRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/damage"
	maintenanceRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/maintenance"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/memory"
	rentalRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/rental"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/dbmetrics"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/metrics"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/txmanager"
)

type vehicleStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	LockByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	List(ctx context.Context) ([]*domain.Vehicle, error)
	SaveDerivedStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
	SetOverride(ctx context.Context, id int64, override domain.ManualOverride) error
}

type customerStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	AdjustAggregates(ctx context.Context, id int64, rentalsDelta int, spentDelta float64) error
}

type rentalStore interface {
	Create(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	ListBlockingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Rental, error)
	ListBlockingBetween(ctx context.Context, from, to time.Time) ([]*domain.Rental, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RentalStatus) error
	UpdateEndDate(ctx context.Context, id int64, endDate time.Time, totalAmount float64) error
	Delete(ctx context.Context, id int64) error
}

type damageStore interface {
	Create(ctx context.Context, damage *domain.Damage) (*domain.Damage, error)
	GetByID(ctx context.Context, id int64) (*domain.Damage, error)
	ListOpenByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Damage, error)
	Update(ctx context.Context, damage *domain.Damage) error
	Delete(ctx context.Context, id int64) error
}

type maintenanceStore interface {
	Create(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error)
	GetByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	ListPendingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) error
	UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) error
	Delete(ctx context.Context, id int64) error
}

type transactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории и менеджер транзакций выбранного бэкенда
type storage struct {
	vehicles    vehicleStore
	customers   customerStore
	rentals     rentalStore
	damages     damageStore
	maintenance maintenanceStore
	txManager   transactionManager

	ping  func(ctx context.Context) error
	close func() error
}

func openStorage(cfg *config.Config, collector *metrics.Metrics, log *logger.Logger, stopCh <-chan struct{}) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		return openMemory(log), nil
	}
	return openPostgres(cfg, collector, log, stopCh)
}

func openPostgres(cfg *config.Config, collector *metrics.Metrics, log *logger.Logger, stopCh <-chan struct{}) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database %s: %w", cfg.Database.RedactedDSN(), err)
	}
	log.Info("Successfully connected to database (%s)", cfg.Database.RedactedDSN())

	var recorder dbmetrics.Recorder
	if collector != nil {
		recorder = collector
		log.Info("Database metrics collection started")
	}
	wrapped := dbmetrics.WrapWithDefault(db, recorder, stopCh)

	opts := []txmanager.Option{
		txmanager.WithMaxRetries(cfg.Booking.MaxTxRetries),
		txmanager.WithBackoff(cfg.Booking.RetryBackoff()),
		txmanager.WithExhaustedError(domain.ErrConcurrency),
		txmanager.WithLogger(log),
	}
	if collector != nil {
		opts = append(opts, txmanager.WithRetryRecorder(collector))
	}

	return &storage{
		vehicles:    vehicleRepo.NewRepository(wrapped),
		customers:   customerRepo.NewRepository(wrapped),
		rentals:     rentalRepo.NewRepository(wrapped),
		damages:     damageRepo.NewRepository(wrapped),
		maintenance: maintenanceRepo.NewRepository(wrapped),
		txManager:   txmanager.NewTransactionManager(wrapped, opts...),
		ping:        wrapped.PingContext,
		close:       db.Close,
	}, nil
}

func openMemory(log *logger.Logger) *storage {
	store := memory.NewStore()
	seedDemoFleet(store, log)

	return &storage{
		vehicles:    store.Vehicles(),
		customers:   store.Customers(),
		rentals:     store.Rentals(),
		damages:     store.Damages(),
		maintenance: store.Maintenance(),
		txManager:   memory.NewTxManager(store),
		ping:        func(context.Context) error { return nil },
		close:       func() error { return nil },
	}
}

// seedDemoFleet наполняет хранилище в памяти для локального запуска
func seedDemoFleet(store *memory.Store, log *logger.Logger) {
	fleet := []domain.Vehicle{
		{Make: "Dacia", Model: "Logan", PlateNumber: "12345-A-1", PricePerDay: 250},
		{Make: "Renault", Model: "Clio", PlateNumber: "23456-B-6", PricePerDay: 300},
		{Make: "Toyota", Model: "RAV4", PlateNumber: "34567-D-26", PricePerDay: 600},
	}
	for _, v := range fleet {
		created := store.AddVehicle(v)
		log.Info("Seeded vehicle id=%d (%s %s)", created.ID, created.Make, created.Model)
	}

	customer := store.AddCustomer(domain.Customer{FullName: "Demo Customer", Email: "demo@carvo.local"})
	log.Info("Seeded customer id=%d", customer.ID)
}
