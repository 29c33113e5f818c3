package status

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
)

type mockVehicleRepo struct{ mock.Mock }

func (m *mockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVehicleRepo) SaveDerivedStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockRentalRepo struct{ mock.Mock }

func (m *mockRentalRepo) ListBlockingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Rental, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

type mockDamageRepo struct{ mock.Mock }

func (m *mockDamageRepo) ListOpenByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Damage, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]*domain.Damage), args.Error(1)
}

type mockMaintenanceRepo struct{ mock.Mock }

func (m *mockMaintenanceRepo) ListPendingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Maintenance, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]*domain.Maintenance), args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixture struct {
	vehicles    *mockVehicleRepo
	rentals     *mockRentalRepo
	damages     *mockDamageRepo
	maintenance *mockMaintenanceRepo
	svc         *Service
}

func newFixture(today string) *fixture {
	f := &fixture{
		vehicles:    &mockVehicleRepo{},
		rentals:     &mockRentalRepo{},
		damages:     &mockDamageRepo{},
		maintenance: &mockMaintenanceRepo{},
	}
	now, _ := time.Parse(domain.DateFormat, today)
	f.svc = NewService(f.vehicles, f.rentals, f.damages, f.maintenance, nil, logger.NewWithWriter(io.Discard, "error")).
		WithTimeProvider(fixedClock{t: now})
	return f
}

func (f *fixture) conditions(vehicleID int64, damages []*domain.Damage, maintenance []*domain.Maintenance, rentals []*domain.Rental) {
	f.damages.On("ListOpenByVehicle", mock.Anything, vehicleID).Return(damages, nil)
	f.maintenance.On("ListPendingByVehicle", mock.Anything, vehicleID).Return(maintenance, nil)
	f.rentals.On("ListBlockingByVehicle", mock.Anything, vehicleID).Return(rentals, nil)
}

func TestService_Derive_SevereDamageOutranksMaintenance(t *testing.T) {
	f := newFixture("2024-06-10")
	f.conditions(1,
		[]*domain.Damage{{VehicleID: 1, Severity: domain.SeveritySevere, Status: domain.DamageReported}},
		[]*domain.Maintenance{{VehicleID: 1, Status: domain.MaintenanceInProgress}},
		[]*domain.Rental{},
	)

	status, err := f.svc.Derive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleSevereDamage, status)

	again, err := f.svc.Derive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status, again)
}

func TestService_Derive_ScheduledMaintenanceBecomesActiveOnItsDate(t *testing.T) {
	scheduled, _ := time.Parse(domain.DateFormat, "2024-06-11")
	records := []*domain.Maintenance{{VehicleID: 1, Status: domain.MaintenanceScheduled, ScheduledDate: scheduled}}

	before := newFixture("2024-06-10")
	before.conditions(1, []*domain.Damage{}, records, []*domain.Rental{})
	status, err := before.svc.Derive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleAvailable, status)

	on := newFixture("2024-06-11")
	on.conditions(1, []*domain.Damage{}, records, []*domain.Rental{})
	status, err = on.svc.Derive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleMaintenance, status)
}

func TestService_Recompute_WritesChangedStatus(t *testing.T) {
	f := newFixture("2024-06-10")
	f.vehicles.On("GetByID", mock.Anything, int64(2)).Return(&domain.Vehicle{ID: 2, Status: domain.VehicleAvailable}, nil)
	f.conditions(2, []*domain.Damage{}, []*domain.Maintenance{}, []*domain.Rental{{VehicleID: 2, Status: domain.RentalActive}})
	f.vehicles.On("SaveDerivedStatus", mock.Anything, int64(2), domain.VehicleRented).Return(nil)

	change, err := f.svc.Recompute(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, change.Changed())
	assert.Equal(t, domain.VehicleRented, change.Current)
	f.vehicles.AssertExpectations(t)
}

func TestService_Recompute_SkipsWriteWhenUnchanged(t *testing.T) {
	f := newFixture("2024-06-10")
	f.vehicles.On("GetByID", mock.Anything, int64(3)).Return(&domain.Vehicle{ID: 3, Status: domain.VehicleAvailable}, nil)
	f.conditions(3, []*domain.Damage{}, []*domain.Maintenance{}, []*domain.Rental{{VehicleID: 3, Status: domain.RentalPending}})

	change, err := f.svc.Recompute(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, change.Changed())
	f.vehicles.AssertNotCalled(t, "SaveDerivedStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Recompute_ClearsManualOverride(t *testing.T) {
	f := newFixture("2024-06-10")
	f.vehicles.On("GetByID", mock.Anything, int64(4)).Return(&domain.Vehicle{
		ID:       4,
		Status:   domain.VehicleAvailable,
		Override: &domain.ManualOverride{Status: domain.VehicleAvailable, Reason: "manual"},
	}, nil)
	f.conditions(4, []*domain.Damage{}, []*domain.Maintenance{}, []*domain.Rental{})
	f.vehicles.On("SaveDerivedStatus", mock.Anything, int64(4), domain.VehicleAvailable).Return(nil)

	_, err := f.svc.Recompute(context.Background(), 4)
	require.NoError(t, err)
	f.vehicles.AssertCalled(t, "SaveDerivedStatus", mock.Anything, int64(4), domain.VehicleAvailable)
}

func TestService_Recompute_VehicleNotFound(t *testing.T) {
	f := newFixture("2024-06-10")
	f.vehicles.On("GetByID", mock.Anything, int64(9)).Return(nil, vehicleRepo.ErrVehicleNotFound)

	_, err := f.svc.Recompute(context.Background(), 9)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Current_PrefersOverride(t *testing.T) {
	f := newFixture("2024-06-10")
	v := &domain.Vehicle{ID: 5, Override: &domain.ManualOverride{Status: domain.VehicleMaintenance}}

	status, err := f.svc.Current(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleMaintenance, status)
	f.damages.AssertNotCalled(t, "ListOpenByVehicle", mock.Anything, mock.Anything)
}
