package extend_rental

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/memory"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/conflicts"
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

func day(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

type env struct {
	store    *memory.Store
	notifier *recordingNotifier
	uc       *UseCase
	vehicle  *domain.Vehicle
	customer *domain.Customer
}

func newEnv(t *testing.T, policy domain.OverlapPolicy) *env {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewWithWriter(io.Discard, "error")

	e := &env{store: store, notifier: &recordingNotifier{}}
	e.vehicle = store.AddVehicle(domain.Vehicle{Make: "Renault", Model: "Clio", PricePerDay: 300})
	e.customer = store.AddCustomer(domain.Customer{FullName: "Salma Idrissi"})

	resolver := conflicts.NewResolver(store.Vehicles(), store.Rentals(), store.Damages(), store.Maintenance(),
		policy, domain.Pricing{DriverFeePerDay: 100, InsuranceFeePerDay: 20}, nil, log)
	deriver := status.NewService(store.Vehicles(), store.Rentals(), store.Damages(), store.Maintenance(), nil, log).
		WithTimeProvider(fixedClock{t: day("2024-05-20")})

	e.uc = NewUseCase(store.Rentals(), store.Vehicles(), store.Customers(), resolver, deriver,
		memory.NewTxManager(store), e.notifier, nil, log)
	return e
}

func (e *env) rental(t *testing.T, start, end string, total float64) *domain.Rental {
	t.Helper()
	r, err := e.store.Rentals().Create(context.Background(), &domain.Rental{
		Code:          domain.NewRentalCode(),
		VehicleID:     e.vehicle.ID,
		CustomerID:    e.customer.ID,
		StartDate:     day(start),
		EndDate:       day(end),
		Status:        domain.RentalPending,
		PaymentStatus: domain.PaymentPending,
		TotalAmount:   total,
	})
	require.NoError(t, err)
	require.NoError(t, e.store.Customers().AdjustAggregates(context.Background(), e.customer.ID, 1, total))
	return r
}

func (e *env) extend(id int64, end string, override bool) (*Response, error) {
	return e.uc.Execute(context.Background(), &Request{RentalID: id, NewEndDate: day(end), Override: override})
}

func TestExecute_AddsIncrement(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)
	r := e.rental(t, "2024-06-01", "2024-06-04", 900)

	resp, err := e.extend(r.ID, "2024-06-06", false)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.AddedDays)
	assert.Equal(t, 600.0, resp.AddedAmount)
	assert.Equal(t, 1500.0, resp.Rental.TotalAmount)
	assert.Equal(t, domain.RentalPending, resp.Rental.Status)

	stored, err := e.store.Rentals().GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.Equal(day("2024-06-06")))
	assert.Equal(t, 1500.0, stored.TotalAmount)

	customer, err := e.store.Customers().GetByID(context.Background(), e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalRentals)
	assert.Equal(t, 1500.0, customer.TotalSpent)

	assert.Equal(t, []domain.EventKind{domain.EventRentalExtended}, e.notifier.kinds)
}

func TestExecute_ChargesExtrasOnIncrement(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)
	r, err := e.store.Rentals().Create(context.Background(), &domain.Rental{
		VehicleID:   e.vehicle.ID,
		CustomerID:  e.customer.ID,
		StartDate:   day("2024-06-01"),
		EndDate:     day("2024-06-02"),
		Status:      domain.RentalActive,
		TotalAmount: 420,
		WithDriver:  true,
		Insurance:   true,
	})
	require.NoError(t, err)

	resp, err := e.extend(r.ID, "2024-06-03", false)
	require.NoError(t, err)
	assert.Equal(t, 420.0, resp.AddedAmount)
	assert.Equal(t, 840.0, resp.Rental.TotalAmount)
	assert.Equal(t, domain.RentalActive, resp.Rental.Status)
}

func TestExecute_RequiresLaterEndDate(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)
	r := e.rental(t, "2024-06-01", "2024-06-04", 900)

	for _, end := range []string{"2024-06-04", "2024-06-03"} {
		_, err := e.extend(r.ID, end, false)
		assert.ErrorIs(t, err, domain.ErrValidation, end)
	}

	stored, err := e.store.Rentals().GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 900.0, stored.TotalAmount)
}

func TestExecute_ConflictsWithNextRental(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)
	first := e.rental(t, "2024-06-01", "2024-06-04", 900)
	e.rental(t, "2024-06-06", "2024-06-08", 600)

	_, err := e.extend(first.ID, "2024-06-06", true)
	require.ErrorIs(t, err, domain.ErrRentalConflict)

	resp, err := e.extend(first.ID, "2024-06-05", false)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AddedDays)

	rentals, err := e.store.Rentals().ListBlockingByVehicle(context.Background(), e.vehicle.ID)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.False(t, domain.Overlaps(rentals[0].Range(), rentals[1].Range()))
}

func TestExecute_SameDayTurnover(t *testing.T) {
	e := newEnv(t, domain.OverlapPolicy{AllowSameDayTurnover: true})
	first := e.rental(t, "2024-06-01", "2024-06-04", 900)
	e.rental(t, "2024-06-06", "2024-06-08", 600)

	resp, err := e.extend(first.ID, "2024-06-06", false)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.AddedDays)

	_, err = e.extend(first.ID, "2024-06-07", false)
	assert.ErrorIs(t, err, domain.ErrRentalConflict)
}

func TestExecute_MaintenanceInExtensionWindow(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)
	r := e.rental(t, "2024-06-01", "2024-06-04", 900)

	// inside the already confirmed period: not re-validated
	_, err := e.store.Maintenance().Create(context.Background(), &domain.Maintenance{
		VehicleID: e.vehicle.ID, Type: "oil", ScheduledDate: day("2024-06-02"), Status: domain.MaintenanceScheduled,
	})
	require.NoError(t, err)
	inWindow, err := e.store.Maintenance().Create(context.Background(), &domain.Maintenance{
		VehicleID: e.vehicle.ID, Type: "brakes", ScheduledDate: day("2024-06-05"), Status: domain.MaintenanceScheduled,
	})
	require.NoError(t, err)

	_, err = e.extend(r.ID, "2024-06-06", false)
	var conflict *domain.MaintenanceConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Records, 1)
	assert.Equal(t, inWindow.ID, conflict.Records[0].ID)

	resp, err := e.extend(r.ID, "2024-06-06", true)
	require.NoError(t, err)
	require.Len(t, resp.CancelledMaintenance, 1)

	pending, err := e.store.Maintenance().ListPendingByVehicle(context.Background(), e.vehicle.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "oil", pending[0].Type)
	assert.Contains(t, e.notifier.kinds, domain.EventMaintenanceCancelled)
}

func TestExecute_TerminalRentalIsNotExtendable(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)
	r := e.rental(t, "2024-06-01", "2024-06-04", 900)
	require.NoError(t, e.store.Rentals().UpdateStatus(context.Background(), r.ID, domain.RentalCompleted))

	_, err := e.extend(r.ID, "2024-06-06", false)
	assert.ErrorIs(t, err, ErrNotExtendable)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_RentalNotFound(t *testing.T) {
	e := newEnv(t, domain.InclusivePolicy)

	_, err := e.extend(404, "2024-06-06", false)
	assert.ErrorIs(t, err, ErrRentalNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.Execute(context.Background(), &Request{RentalID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
