package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	rentalRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/rental"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTxManager_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	vehicle := store.AddVehicle(domain.Vehicle{Make: "Dacia", PricePerDay: 250})
	customer := store.AddCustomer(domain.Customer{FullName: "A"})
	tx := NewTxManager(store)

	boom := errors.New("boom")
	err := tx.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := store.Rentals().Create(txCtx, &domain.Rental{
			VehicleID: vehicle.ID, CustomerID: customer.ID,
			StartDate: date("2024-06-01"), EndDate: date("2024-06-03"), Status: domain.RentalPending,
		})
		require.NoError(t, err)
		require.NoError(t, store.Customers().AdjustAggregates(txCtx, customer.ID, 1, 900))
		require.NoError(t, store.Vehicles().SaveDerivedStatus(txCtx, vehicle.ID, domain.VehicleRented))
		return boom
	})
	require.ErrorIs(t, err, boom)

	rentals, err := store.Rentals().ListBlockingByVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Empty(t, rentals)

	c, err := store.Customers().GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Zero(t, c.TotalRentals)
	assert.Zero(t, c.TotalSpent)

	v, err := store.Vehicles().GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleAvailable, v.Status)
}

func TestTxManager_NestedCallJoinsOuter(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)

	calls := 0
	err := tx.DoSerializable(context.Background(), func(txCtx context.Context) error {
		return tx.DoSerializable(txCtx, func(context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRentals_ListBlockingBetween(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rentals := store.Rentals()

	mk := func(start, end string, status domain.RentalStatus) {
		_, err := rentals.Create(ctx, &domain.Rental{VehicleID: 1, StartDate: date(start), EndDate: date(end), Status: status})
		require.NoError(t, err)
	}
	mk("2024-06-01", "2024-06-03", domain.RentalActive)
	mk("2024-06-03", "2024-06-05", domain.RentalPending)
	mk("2024-06-02", "2024-06-04", domain.RentalCancelled)
	mk("2024-06-10", "2024-06-12", domain.RentalPending)

	got, err := rentals.ListBlockingBetween(ctx, date("2024-06-03"), date("2024-06-06"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, date("2024-06-01"), got[0].StartDate)
	assert.Equal(t, date("2024-06-03"), got[1].StartDate)
}

func TestRentals_DeleteDetachesDamages(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	rental, err := store.Rentals().Create(ctx, &domain.Rental{VehicleID: 1, Status: domain.RentalCompleted})
	require.NoError(t, err)
	damage, err := store.Damages().Create(ctx, &domain.Damage{
		VehicleID: 1, RentalID: &rental.ID, Severity: domain.SeverityMinor, Status: domain.DamageReported,
	})
	require.NoError(t, err)

	require.NoError(t, store.Rentals().Delete(ctx, rental.ID))

	got, err := store.Damages().GetByID(ctx, damage.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RentalID)

	_, err = store.Rentals().GetByID(ctx, rental.ID)
	assert.ErrorIs(t, err, rentalRepo.ErrRentalNotFound)
	assert.ErrorIs(t, store.Rentals().Delete(ctx, rental.ID), rentalRepo.ErrRentalNotFound)
}

func TestVehicles_NotFound(t *testing.T) {
	_, err := NewStore().Vehicles().LockByID(context.Background(), 42)
	assert.ErrorIs(t, err, vehicleRepo.ErrVehicleNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	vehicle := store.AddVehicle(domain.Vehicle{Make: "Renault"})

	v, err := store.Vehicles().GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	v.Status = domain.VehicleSevereDamage

	again, err := store.Vehicles().GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleAvailable, again.Status)
}
