package maintenance

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/memory"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []domain.EventKind
}

func (n *recordingNotifier) Notify(_ context.Context, kind domain.EventKind, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func ptr[T any](v T) *T { return &v }

type env struct {
	store    *memory.Store
	notifier *recordingNotifier
	svc      *Service
	vehicle  *domain.Vehicle
}

// today is 2024-06-10
func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewWithWriter(io.Discard, "error")

	e := &env{store: store, notifier: &recordingNotifier{}}
	e.vehicle = store.AddVehicle(domain.Vehicle{Make: "Toyota", Model: "Yaris", PricePerDay: 400})

	deriver := status.NewService(store.Vehicles(), store.Rentals(), store.Damages(), store.Maintenance(), nil, log).
		WithTimeProvider(fixedClock{t: time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)})
	e.svc = NewService(store.Maintenance(), store.Vehicles(), deriver, memory.NewTxManager(store), e.notifier, log)
	return e
}

func (e *env) vehicleStatus(t *testing.T) domain.VehicleStatus {
	t.Helper()
	v, err := e.store.Vehicles().GetByID(context.Background(), e.vehicle.ID)
	require.NoError(t, err)
	return v.Status
}

func TestCreate_FutureRecordDoesNotBlock(t *testing.T) {
	e := newEnv(t)

	resp, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "tyres", ScheduledDate: "2024-06-20", Cost: 800, Provider: "Atlas Garage",
	})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "available", resp.VehicleStatus)
	assert.Empty(t, e.notifier.kinds)
}

func TestCreate_DueRecordBlocks(t *testing.T) {
	e := newEnv(t)

	resp, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "oil change", ScheduledDate: "2024-06-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.VehicleStatus)
	assert.Equal(t, []domain.EventKind{domain.EventVehicleStatusChanged}, e.notifier.kinds)
}

func TestCreate_Validation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name    string
		req     models.CreateMaintenanceRequest
		wantErr error
	}{
		{name: "missing type", req: models.CreateMaintenanceRequest{VehicleID: e.vehicle.ID, ScheduledDate: "2024-06-20"}, wantErr: domain.ErrValidation},
		{name: "bad date", req: models.CreateMaintenanceRequest{VehicleID: e.vehicle.ID, Type: "brakes", ScheduledDate: "20/06/2024"}, wantErr: domain.ErrValidation},
		{name: "negative cost", req: models.CreateMaintenanceRequest{VehicleID: e.vehicle.ID, Type: "brakes", ScheduledDate: "2024-06-20", Cost: -5}, wantErr: domain.ErrValidation},
		{name: "created completed", req: models.CreateMaintenanceRequest{VehicleID: e.vehicle.ID, Type: "brakes", ScheduledDate: "2024-06-20", Status: "completed"}, wantErr: ErrInvalidInput},
		{name: "missing vehicle", req: models.CreateMaintenanceRequest{VehicleID: 404, Type: "brakes", ScheduledDate: "2024-06-20"}, wantErr: ErrVehicleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdate_Lifecycle(t *testing.T) {
	e := newEnv(t)
	created, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "engine", ScheduledDate: "2024-06-15",
	})
	require.NoError(t, err)

	resp, err := e.svc.Update(context.Background(), created.ID, &models.UpdateMaintenanceRequest{Status: ptr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.VehicleStatus)

	resp, err = e.svc.Update(context.Background(), created.ID, &models.UpdateMaintenanceRequest{
		Status: ptr("completed"), Cost: ptr(2500.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "available", resp.VehicleStatus)
	assert.Equal(t, 2500.0, resp.Cost)

	_, err = e.svc.Update(context.Background(), created.ID, &models.UpdateMaintenanceRequest{Notes: ptr("late note")})
	assert.ErrorIs(t, err, ErrFinished)
}

func TestUpdate_InvalidTransition(t *testing.T) {
	e := newEnv(t)
	created, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "engine", ScheduledDate: "2024-06-15", Status: "in_progress",
	})
	require.NoError(t, err)

	_, err = e.svc.Update(context.Background(), created.ID, &models.UpdateMaintenanceRequest{Status: ptr("scheduled")})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := e.svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", stored.Status)
}

func TestUpdate_RescheduleReleasesVehicle(t *testing.T) {
	e := newEnv(t)
	created, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "inspection", ScheduledDate: "2024-06-09",
	})
	require.NoError(t, err)
	require.Equal(t, domain.VehicleMaintenance, e.vehicleStatus(t))

	resp, err := e.svc.Update(context.Background(), created.ID, &models.UpdateMaintenanceRequest{ScheduledDate: ptr("2024-07-01")})
	require.NoError(t, err)
	assert.Equal(t, "available", resp.VehicleStatus)
}

func TestUpdate_CancelNotifies(t *testing.T) {
	e := newEnv(t)
	created, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "paint", ScheduledDate: "2024-06-30",
	})
	require.NoError(t, err)

	_, err = e.svc.Update(context.Background(), created.ID, &models.UpdateMaintenanceRequest{Status: ptr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, []domain.EventKind{domain.EventMaintenanceCancelled}, e.notifier.kinds)
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	created, err := e.svc.Create(context.Background(), &models.CreateMaintenanceRequest{
		VehicleID: e.vehicle.ID, Type: "battery", ScheduledDate: "2024-06-01",
	})
	require.NoError(t, err)
	require.Equal(t, domain.VehicleMaintenance, e.vehicleStatus(t))

	require.NoError(t, e.svc.Delete(context.Background(), created.ID))
	assert.Equal(t, domain.VehicleAvailable, e.vehicleStatus(t))

	assert.ErrorIs(t, e.svc.Delete(context.Background(), created.ID), ErrMaintenanceNotFound)
}
