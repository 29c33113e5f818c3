package create_rental

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	createRental "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/create_rental"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
)

type stubUseCase struct {
	got  *createRental.Request
	resp *createRental.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createRental.Request) (*createRental.Response, error) {
	s.got = req
	return s.resp, s.err
}

func day(s string) time.Time {
	t, _ := time.Parse(domain.DateFormat, s)
	return t
}

func post(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, handlers.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	var errResp handlers.ErrorResponse
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	}
	return rec, errResp
}

const validBody = `{"customerId":7,"vehicleId":3,"startDate":"2024-06-01","endDate":"2024-06-03","insurance":true}`

func newHandler(uc *stubUseCase) *Handler {
	return NewHandler(uc, logger.NewWithWriter(io.Discard, "error"))
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{resp: &createRental.Response{
		Rental: &domain.Rental{
			ID: 11, Code: "RNT-ABCDEF12", VehicleID: 3, CustomerID: 7,
			StartDate: day("2024-06-01"), EndDate: day("2024-06-03"),
			Status: domain.RentalPending, PaymentStatus: domain.PaymentPending,
			TotalAmount: 450, Insurance: true,
		},
		Days:          3,
		VehicleStatus: domain.VehicleAvailable,
	}}

	rec, _ := post(t, newHandler(uc), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, day("2024-06-01"), uc.got.StartDate)
	assert.True(t, uc.got.Insurance)
	assert.False(t, uc.got.Override)

	var body CreateRentalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RNT-ABCDEF12", body.Rental.Code)
	assert.Equal(t, "2024-06-03", body.Rental.EndDate)
	assert.Equal(t, 3, body.Days)
	assert.Equal(t, string(domain.VehicleAvailable), body.Rental.VehicleStatus)
}

func TestHandle_MaintenanceConflictListsRecords(t *testing.T) {
	window := domain.DateRange{Start: day("2024-06-01"), End: day("2024-06-03")}
	uc := &stubUseCase{err: fmt.Errorf("conflicts: %w", &domain.MaintenanceConflictError{
		Window: window,
		Records: []*domain.Maintenance{{
			ID: 5, Type: "oil change", ScheduledDate: day("2024-06-02"), Status: domain.MaintenanceScheduled,
			Cost: 120, Provider: "AutoFix",
		}},
	})}

	rec, errResp := post(t, newHandler(uc), validBody)

	require.Equal(t, http.StatusConflict, rec.Code)
	details, ok := errResp.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "maintenance", details["kind"])
	assert.Equal(t, true, details["overrideAllowed"])
	records := details["maintenance"].([]interface{})
	require.Len(t, records, 1)
	record := records[0].(map[string]interface{})
	assert.Equal(t, float64(5), record["id"])
	assert.Equal(t, "oil change", record["type"])
	assert.Equal(t, "2024-06-02", record["scheduledDate"])
	assert.Equal(t, float64(120), record["cost"])
	assert.Equal(t, "AutoFix", record["provider"])
	assert.Equal(t, string(domain.MaintenanceScheduled), record["status"])
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name: "rental conflict",
			err: &domain.RentalConflictError{
				Window:  domain.DateRange{Start: day("2024-06-01"), End: day("2024-06-03")},
				Rentals: []*domain.Rental{{ID: 1, Code: "RNT-1"}},
			},
			status: http.StatusConflict,
		},
		{
			name:   "vehicle unavailable",
			err:    &domain.VehicleUnavailableError{VehicleID: 3, Status: domain.VehicleSevereDamage},
			status: http.StatusConflict,
		},
		{name: "customer not found", err: createRental.ErrCustomerNotFound, status: http.StatusNotFound},
		{name: "vehicle not found", err: fmt.Errorf("conflicts: vehicle %w", domain.ErrNotFound), status: http.StatusNotFound},
		{name: "validation", err: &domain.ValidationError{Field: "endDate", Rule: "too long"}, status: http.StatusBadRequest},
		{name: "retries exhausted", err: domain.ErrConcurrency, status: http.StatusServiceUnavailable},
		{name: "internal", err: createRental.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, errResp := post(t, newHandler(&stubUseCase{err: tt.err}), validBody)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"customerId":`},
		{name: "unknown field", body: `{"customerId":1,"vehicleId":1,"startDate":"2024-06-01","endDate":"2024-06-02","color":"red"}`},
		{name: "bad date", body: `{"customerId":1,"vehicleId":1,"startDate":"01.06.2024","endDate":"2024-06-02"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec, _ := post(t, newHandler(uc), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}
