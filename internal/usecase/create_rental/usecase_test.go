package create_rental

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

type notification struct {
	kind    domain.EventKind
	payload interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) Notify(_ context.Context, kind domain.EventKind, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{kind: kind, payload: payload})
}

func (n *recordingNotifier) kinds() []domain.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.EventKind, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.kind)
	}
	return out
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type failingCustomers struct {
	*memory.Customers
}

func (f failingCustomers) AdjustAggregates(context.Context, int64, int, float64) error {
	return errors.New("connection reset")
}

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

func newEnv(t *testing.T, customers CustomerRepository) *env {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewWithWriter(io.Discard, "error")

	e := &env{store: store, notifier: &recordingNotifier{}}
	e.vehicle = store.AddVehicle(domain.Vehicle{Make: "Dacia", Model: "Logan", PricePerDay: 300})
	e.customer = store.AddCustomer(domain.Customer{FullName: "Youssef Amrani", Email: "y.amrani@example.com"})

	if customers == nil {
		customers = store.Customers()
	}

	resolver := conflicts.NewResolver(store.Vehicles(), store.Rentals(), store.Damages(), store.Maintenance(),
		domain.InclusivePolicy, domain.Pricing{DriverFeePerDay: 100, InsuranceFeePerDay: 20}, nil, log)
	deriver := status.NewService(store.Vehicles(), store.Rentals(), store.Damages(), store.Maintenance(), nil, log).
		WithTimeProvider(fixedClock{t: day("2024-05-20")})

	e.uc = NewUseCase(store.Rentals(), customers, resolver, deriver, memory.NewTxManager(store), e.notifier, nil, log)
	return e
}

func (e *env) book(start, end string, override bool) (*Response, error) {
	return e.uc.Execute(context.Background(), &Request{
		CustomerID: e.customer.ID,
		VehicleID:  e.vehicle.ID,
		StartDate:  day(start),
		EndDate:    day(end),
		Override:   override,
	})
}

func TestExecute_CreatesPendingRental(t *testing.T) {
	e := newEnv(t, nil)

	resp, err := e.book("2024-06-01", "2024-06-04", false)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, 900.0, resp.Rental.TotalAmount)
	assert.Equal(t, domain.RentalPending, resp.Rental.Status)
	assert.Equal(t, domain.PaymentPending, resp.Rental.PaymentStatus)
	assert.Equal(t, domain.VehicleAvailable, resp.VehicleStatus)
	assert.Regexp(t, `^RNT-[0-9A-F]{8}$`, resp.Rental.Code)

	customer, err := e.store.Customers().GetByID(context.Background(), e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalRentals)
	assert.Equal(t, 900.0, customer.TotalSpent)

	assert.Equal(t, []domain.EventKind{domain.EventRentalCreated}, e.notifier.kinds())
}

func TestExecute_OverlappingBookingIsRejected(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.book("2024-06-01", "2024-06-04", false)
	require.NoError(t, err)

	_, err = e.book("2024-06-03", "2024-06-06", true)
	require.ErrorIs(t, err, domain.ErrRentalConflict)

	customer, err := e.store.Customers().GetByID(context.Background(), e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalRentals)
}

func TestExecute_MaintenanceConflictAndOverride(t *testing.T) {
	e := newEnv(t, nil)
	m, err := e.store.Maintenance().Create(context.Background(), &domain.Maintenance{
		VehicleID:     e.vehicle.ID,
		Type:          "tyres",
		ScheduledDate: day("2024-06-02"),
		Status:        domain.MaintenanceScheduled,
	})
	require.NoError(t, err)

	_, err = e.book("2024-06-01", "2024-06-04", false)
	var conflict *domain.MaintenanceConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Records, 1)
	assert.Equal(t, m.ID, conflict.Records[0].ID)

	resp, err := e.book("2024-06-01", "2024-06-04", true)
	require.NoError(t, err)
	require.Len(t, resp.CancelledMaintenance, 1)

	stored, err := e.store.Maintenance().GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceCancelled, stored.Status)
	assert.Contains(t, e.notifier.kinds(), domain.EventMaintenanceCancelled)
}

func TestExecute_MinorDamageDoesNotBlock(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.store.Damages().Create(context.Background(), &domain.Damage{
		VehicleID: e.vehicle.ID,
		Severity:  domain.SeverityMinor,
		Status:    domain.DamageReported,
	})
	require.NoError(t, err)
	require.NoError(t, e.store.Vehicles().SaveDerivedStatus(context.Background(), e.vehicle.ID, domain.VehicleMinorDamage))

	resp, err := e.book("2024-06-01", "2024-06-04", false)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleMinorDamage, resp.VehicleStatus)
	assert.Len(t, resp.OpenDamages, 1)
}

func TestExecute_Validation(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.book("2024-06-04", "2024-06-04", false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.book("2024-06-05", "2024-06-04", false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.uc.Execute(context.Background(), &Request{VehicleID: e.vehicle.ID, StartDate: day("2024-06-01"), EndDate: day("2024-06-02")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.uc.Execute(context.Background(), &Request{
		CustomerID: 999,
		VehicleID:  e.vehicle.ID,
		StartDate:  day("2024-06-01"),
		EndDate:    day("2024-06-02"),
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = e.uc.Execute(context.Background(), &Request{
		CustomerID: e.customer.ID,
		VehicleID:  999,
		StartDate:  day("2024-06-01"),
		EndDate:    day("2024-06-02"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_RollsBackOnAggregateFailure(t *testing.T) {
	e := newEnv(t, nil)
	e.uc.customerRepo = failingCustomers{Customers: e.store.Customers()}

	_, err := e.book("2024-06-01", "2024-06-04", false)
	require.ErrorIs(t, err, ErrInternal)

	rentals, err := e.store.Rentals().ListBlockingByVehicle(context.Background(), e.vehicle.ID)
	require.NoError(t, err)
	assert.Empty(t, rentals)
	assert.Empty(t, e.notifier.kinds())
}

func TestExecute_ConcurrentOverlappingBookings(t *testing.T) {
	e := newEnv(t, nil)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			<-start
			// every window shares 2024-06-05 with every other one
			_, err := e.uc.Execute(context.Background(), &Request{
				CustomerID: e.customer.ID,
				VehicleID:  e.vehicle.ID,
				StartDate:  domain.AddDays(day("2024-06-05"), -(offset % 4)),
				EndDate:    domain.AddDays(day("2024-06-05"), 1+offset%3),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrRentalConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	rentals, err := e.store.Rentals().ListBlockingByVehicle(context.Background(), e.vehicle.ID)
	require.NoError(t, err)
	require.Len(t, rentals, 1)
}

func TestExecute_NoDoubleBookingAcrossSequence(t *testing.T) {
	e := newEnv(t, nil)
	windows := [][2]string{
		{"2024-06-01", "2024-06-04"},
		{"2024-06-04", "2024-06-06"},
		{"2024-06-05", "2024-06-08"},
		{"2024-06-09", "2024-06-10"},
		{"2024-05-28", "2024-06-02"},
		{"2024-06-11", "2024-06-15"},
	}
	for _, w := range windows {
		_, _ = e.book(w[0], w[1], false)
	}

	rentals, err := e.store.Rentals().ListBlockingByVehicle(context.Background(), e.vehicle.ID)
	require.NoError(t, err)
	for i := range rentals {
		for j := i + 1; j < len(rentals); j++ {
			assert.False(t, domain.Overlaps(rentals[i].Range(), rentals[j].Range()),
				"%s overlaps %s", rentals[i].Range(), rentals[j].Range())
		}
	}
	assert.Len(t, rentals, 4)
}
