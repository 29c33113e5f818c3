package extend_rental

import (
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Request модель запроса на продление аренды
type Request struct {
	RentalID   int64
	NewEndDate time.Time
	Override   bool // отменить обслуживание, попадающее в окно продления
}

// Response результат продления
type Response struct {
	Rental               *domain.Rental
	AddedDays            int
	AddedAmount          float64
	VehicleStatus        domain.VehicleStatus
	CancelledMaintenance []*domain.Maintenance
}
