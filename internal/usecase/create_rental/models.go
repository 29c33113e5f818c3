package create_rental

import (
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Request модель запроса на создание аренды
type Request struct {
	CustomerID int64
	VehicleID  int64
	StartDate  time.Time
	EndDate    time.Time
	WithDriver bool
	Insurance  bool
	Override   bool // отменить обслуживание, попадающее в период аренды
}

// Response результат бронирования
type Response struct {
	Rental               *domain.Rental
	Days                 int
	VehicleStatus        domain.VehicleStatus
	OpenDamages          []*domain.Damage      // открытые повреждения автомобиля на момент бронирования
	CancelledMaintenance []*domain.Maintenance // обслуживание, отменённое по override
}
