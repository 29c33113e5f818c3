package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	customerRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/customer"
	damageRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/damage"
	maintenanceRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/maintenance"
	rentalRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/rental"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
)

// Vehicles репозиторий автомобилей поверх Store
type Vehicles struct{ s *Store }

func (s *Store) Vehicles() *Vehicles { return &Vehicles{s: s} }

func (r *Vehicles) GetByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, vehicleRepo.ErrVehicleNotFound
	}
	out := *v
	return &out, nil
}

// LockByID в памяти эквивалентен GetByID: эксклюзивность обеспечивает TxManager
func (r *Vehicles) LockByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.GetByID(ctx, id)
}

func (r *Vehicles) List(_ context.Context) ([]*domain.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Vehicle, 0, len(r.s.vehicles))
	for _, id := range sortedIDs(r.s.vehicles) {
		v := *r.s.vehicles[id]
		out = append(out, &v)
	}
	return out, nil
}

func (r *Vehicles) SaveDerivedStatus(_ context.Context, id int64, status domain.VehicleStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok {
		return vehicleRepo.ErrVehicleNotFound
	}
	v.Status = status
	v.Override = nil
	v.UpdatedAt = r.s.now()
	return nil
}

func (r *Vehicles) SetOverride(_ context.Context, id int64, override domain.ManualOverride) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok {
		return vehicleRepo.ErrVehicleNotFound
	}
	o := override
	v.Status = override.Status
	v.Override = &o
	v.UpdatedAt = r.s.now()
	return nil
}

// Customers репозиторий клиентов поверх Store
type Customers struct{ s *Store }

func (s *Store) Customers() *Customers { return &Customers{s: s} }

func (r *Customers) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	out := *c
	return &out, nil
}

func (r *Customers) AdjustAggregates(_ context.Context, id int64, rentalsDelta int, spentDelta float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.customers[id]
	if !ok {
		return customerRepo.ErrCustomerNotFound
	}
	c.TotalRentals = max(c.TotalRentals+rentalsDelta, 0)
	c.TotalSpent = max(c.TotalSpent+spentDelta, 0)
	c.UpdatedAt = r.s.now()
	return nil
}

// Rentals репозиторий аренд поверх Store
type Rentals struct{ s *Store }

func (s *Store) Rentals() *Rentals { return &Rentals{s: s} }

func (r *Rentals) Create(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rental.ID = r.s.id()
	rental.CreatedAt, rental.UpdatedAt = r.s.now(), r.s.now()
	stored := *rental
	r.s.rentals[rental.ID] = &stored
	return rental, nil
}

func (r *Rentals) GetByID(_ context.Context, id int64) (*domain.Rental, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rental, ok := r.s.rentals[id]
	if !ok {
		return nil, rentalRepo.ErrRentalNotFound
	}
	out := *rental
	return &out, nil
}

func (r *Rentals) ListBlockingByVehicle(_ context.Context, vehicleID int64) ([]*domain.Rental, error) {
	return r.filter(func(rental *domain.Rental) bool {
		return rental.VehicleID == vehicleID && rental.Status.IsBlocking()
	}), nil
}

func (r *Rentals) ListBlockingBetween(_ context.Context, from, to time.Time) ([]*domain.Rental, error) {
	return r.filter(func(rental *domain.Rental) bool {
		return rental.Status.IsBlocking() && !rental.StartDate.After(to) && !rental.EndDate.Before(from)
	}), nil
}

func (r *Rentals) UpdateStatus(_ context.Context, id int64, status domain.RentalStatus) error {
	return r.update(id, func(rental *domain.Rental) { rental.Status = status })
}

func (r *Rentals) UpdateEndDate(_ context.Context, id int64, endDate time.Time, totalAmount float64) error {
	return r.update(id, func(rental *domain.Rental) {
		rental.EndDate = endDate
		rental.TotalAmount = totalAmount
	})
}

func (r *Rentals) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rentals[id]; !ok {
		return rentalRepo.ErrRentalNotFound
	}
	delete(r.s.rentals, id)
	for _, d := range r.s.damages {
		if d.RentalID != nil && *d.RentalID == id {
			d.RentalID = nil
		}
	}
	return nil
}

func (r *Rentals) update(id int64, apply func(*domain.Rental)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rental, ok := r.s.rentals[id]
	if !ok {
		return rentalRepo.ErrRentalNotFound
	}
	apply(rental)
	rental.UpdatedAt = r.s.now()
	return nil
}

func (r *Rentals) filter(keep func(*domain.Rental) bool) []*domain.Rental {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Rental, 0)
	for _, id := range sortedIDs(r.s.rentals) {
		if rental := r.s.rentals[id]; keep(rental) {
			c := *rental
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// Damages репозиторий повреждений поверх Store
type Damages struct{ s *Store }

func (s *Store) Damages() *Damages { return &Damages{s: s} }

func (r *Damages) Create(_ context.Context, d *domain.Damage) (*domain.Damage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d.ID = r.s.id()
	d.ReportedAt, d.UpdatedAt = r.s.now(), r.s.now()
	stored := *d
	r.s.damages[d.ID] = &stored
	return d, nil
}

func (r *Damages) GetByID(_ context.Context, id int64) (*domain.Damage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.damages[id]
	if !ok {
		return nil, damageRepo.ErrDamageNotFound
	}
	out := *d
	return &out, nil
}

func (r *Damages) ListOpenByVehicle(_ context.Context, vehicleID int64) ([]*domain.Damage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Damage, 0)
	for _, id := range sortedIDs(r.s.damages) {
		if d := r.s.damages[id]; d.VehicleID == vehicleID && d.IsOpen() {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *Damages) Update(_ context.Context, d *domain.Damage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.damages[d.ID]
	if !ok {
		return damageRepo.ErrDamageNotFound
	}
	stored.Severity = d.Severity
	stored.Status = d.Status
	stored.Description = d.Description
	stored.RepairCost = d.RepairCost
	stored.UpdatedAt = r.s.now()
	return nil
}

func (r *Damages) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.damages[id]; !ok {
		return damageRepo.ErrDamageNotFound
	}
	delete(r.s.damages, id)
	return nil
}

// Maintenance репозиторий обслуживания поверх Store
type Maintenance struct{ s *Store }

func (s *Store) Maintenance() *Maintenance { return &Maintenance{s: s} }

func (r *Maintenance) Create(_ context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m.ID = r.s.id()
	m.CreatedAt, m.UpdatedAt = r.s.now(), r.s.now()
	stored := *m
	r.s.maintenance[m.ID] = &stored
	return m, nil
}

func (r *Maintenance) GetByID(_ context.Context, id int64) (*domain.Maintenance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.maintenance[id]
	if !ok {
		return nil, maintenanceRepo.ErrMaintenanceNotFound
	}
	out := *m
	return &out, nil
}

func (r *Maintenance) ListPendingByVehicle(_ context.Context, vehicleID int64) ([]*domain.Maintenance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Maintenance, 0)
	for _, id := range sortedIDs(r.s.maintenance) {
		if m := r.s.maintenance[id]; m.VehicleID == vehicleID && m.Status.IsPending() {
			c := *m
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r *Maintenance) Update(_ context.Context, m *domain.Maintenance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.maintenance[m.ID]
	if !ok {
		return maintenanceRepo.ErrMaintenanceNotFound
	}
	created := stored.CreatedAt
	*stored = *m
	stored.CreatedAt = created
	stored.UpdatedAt = r.s.now()
	return nil
}

func (r *Maintenance) UpdateStatus(_ context.Context, id int64, status domain.MaintenanceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.maintenance[id]
	if !ok {
		return maintenanceRepo.ErrMaintenanceNotFound
	}
	m.Status = status
	m.UpdatedAt = r.s.now()
	return nil
}

func (r *Maintenance) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.maintenance[id]; !ok {
		return maintenanceRepo.ErrMaintenanceNotFound
	}
	delete(r.s.maintenance, id)
	return nil
}
