package conflicts

import "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"

// Mode тип запроса на бронирование
type Mode int

const (
	// ModeNewBooking новая аренда: проверяется и общий статус автомобиля
	ModeNewBooking Mode = iota
	// ModeExtension продление: проверяется только окно продления
	ModeExtension
)

func (m Mode) String() string {
	if m == ModeExtension {
		return "extension"
	}
	return "new_booking"
}

// Request запрос на проверку окна бронирования
type Request struct {
	VehicleID       int64
	Window          domain.DateRange // проверяемое окно
	Billable        domain.DateRange // оплачиваемый период (для новой аренды совпадает с Window)
	ExcludeRentalID int64            // 0 - не исключать
	Override        bool             // отменить конфликтующее обслуживание
	WithDriver      bool
	Insurance       bool
	Mode            Mode
}

// Resolution результат успешной проверки
type Resolution struct {
	Vehicle              *domain.Vehicle
	Days                 int
	Amount               float64 // сумма аренды или прирост суммы при продлении
	OpenDamages          []*domain.Damage
	CancelledMaintenance []*domain.Maintenance
}
