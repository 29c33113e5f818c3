package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgRetryLater    = "автомобиль сейчас изменяется другим запросом, повторите позже"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationDetails нарушенное правило валидации
type ValidationDetails struct {
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule"`
}

// ConflictDetails описание конфликта бронирования
type ConflictDetails struct {
	Kind            string                `json:"kind"` // rental | maintenance | vehicle_status
	StartDate       string                `json:"startDate,omitempty"`
	EndDate         string                `json:"endDate,omitempty"`
	OverrideAllowed bool                  `json:"overrideAllowed"`
	Rentals         []ConflictRental      `json:"rentals,omitempty"`
	Maintenance     []ConflictMaintenance `json:"maintenance,omitempty"`
	VehicleStatus   string                `json:"vehicleStatus,omitempty"`
}

// ConflictRental пересекающаяся аренда
type ConflictRental struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// ConflictMaintenance обслуживание внутри запрошенного окна
type ConflictMaintenance struct {
	ID            int64   `json:"id"`
	Type          string  `json:"type"`
	ScheduledDate string  `json:"scheduledDate"`
	Cost          float64 `json:"cost"`
	Provider      string  `json:"provider"`
	Status        string  `json:"status"`
}

// DecodeJSON читает тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondNoContent 204 без тела
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondRetryLater исчерпаны повторы сериализуемой транзакции
func RespondRetryLater(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	RespondError(w, http.StatusServiceUnavailable, msgRetryLater)
}

// RespondValidation 400 с описанием нарушенного правила
func RespondValidation(w http.ResponseWriter, message string, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   message,
			Details: ValidationDetails{Field: vErr.Field, Rule: vErr.Rule},
		})
		return
	}
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   message,
		Details: ValidationDetails{Rule: err.Error()},
	})
}

// RespondConflict 409 со списком конфликтующих записей
func RespondConflict(w http.ResponseWriter, message string, err error) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{
		Error:   message,
		Details: ConflictDetailsFrom(err),
	})
}

// ConflictDetailsFrom извлекает описание конфликта из ошибки домена
func ConflictDetailsFrom(err error) *ConflictDetails {
	var (
		rentalErr      *domain.RentalConflictError
		maintenanceErr *domain.MaintenanceConflictError
		vehicleErr     *domain.VehicleUnavailableError
	)

	switch {
	case errors.As(err, &rentalErr):
		details := &ConflictDetails{
			Kind:      "rental",
			StartDate: rentalErr.Window.Start.Format(domain.DateFormat),
			EndDate:   rentalErr.Window.End.Format(domain.DateFormat),
		}
		for _, r := range rentalErr.Rentals {
			details.Rentals = append(details.Rentals, ConflictRental{
				ID:        r.ID,
				Code:      r.Code,
				StartDate: r.StartDate.Format(domain.DateFormat),
				EndDate:   r.EndDate.Format(domain.DateFormat),
				Status:    string(r.Status),
			})
		}
		return details

	case errors.As(err, &maintenanceErr):
		details := &ConflictDetails{
			Kind:            "maintenance",
			StartDate:       maintenanceErr.Window.Start.Format(domain.DateFormat),
			EndDate:         maintenanceErr.Window.End.Format(domain.DateFormat),
			OverrideAllowed: true,
		}
		for _, m := range maintenanceErr.Records {
			details.Maintenance = append(details.Maintenance, ConflictMaintenance{
				ID:            m.ID,
				Type:          m.Type,
				ScheduledDate: m.ScheduledDate.Format(domain.DateFormat),
				Cost:          m.Cost,
				Provider:      m.Provider,
				Status:        string(m.Status),
			})
		}
		return details

	case errors.As(err, &vehicleErr):
		return &ConflictDetails{
			Kind:          "vehicle_status",
			VehicleStatus: string(vehicleErr.Status),
		}
	}
	return nil
}

// IsConflict ошибка относится к конфликтам бронирования
func IsConflict(err error) bool {
	return errors.Is(err, domain.ErrRentalConflict) ||
		errors.Is(err, domain.ErrMaintenanceConflict) ||
		errors.Is(err, domain.ErrVehicleUnavailable)
}

// PathID извлекает положительный числовой идентификатор из URL
func PathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, fmt.Errorf("path variable %q is missing", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("path variable %q must be positive", name)
	}
	return id, nil
}

// ParseDate разбирает календарную дату YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	return time.Parse(domain.DateFormat, value)
}
