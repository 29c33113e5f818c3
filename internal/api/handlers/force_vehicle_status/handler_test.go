package force_vehicle_status

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
)

type stubService struct {
	gotID  int64
	gotReq *models.ForceStatusRequest
	resp   *models.VehicleResponse
	err    error
}

func (s *stubService) ForceStatus(_ context.Context, id int64, req *models.ForceStatusRequest) (*models.VehicleResponse, error) {
	s.gotID = id
	s.gotReq = req
	return s.resp, s.err
}

func serve(svc *stubService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/vehicles/{vehicleId}/status", NewHandler(svc, logger.NewWithWriter(io.Discard, "error")).Handle).
		Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(body)))
	return rec
}

func TestHandle_StatusForced(t *testing.T) {
	setAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := &stubService{resp: &models.VehicleResponse{
		ID: 3, PlateNumber: "12345-A-6",
		Status:       string(domain.VehicleMaintenance),
		StoredStatus: string(domain.VehicleMaintenance),
		Override: &models.OverrideResponse{
			Status: string(domain.VehicleMaintenance), Reason: "recall inspection", SetAt: setAt,
		},
	}}

	rec := serve(svc, "/api/v1/vehicles/3/status", `{"status":"maintenance","reason":"recall inspection"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.gotID)
	assert.Equal(t, "maintenance", svc.gotReq.Status)
	assert.Equal(t, "recall inspection", svc.gotReq.Reason)

	var body models.VehicleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(domain.VehicleMaintenance), body.Status)
	require.NotNil(t, body.Override)
	assert.Equal(t, "recall inspection", body.Override.Reason)
	assert.True(t, setAt.Equal(body.Override.SetAt))
}

func TestHandle_Errors(t *testing.T) {
	const valid = `{"status":"maintenance","reason":"recall"}`

	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		status     int
		wantErrMsg string
	}{
		{name: "bad id", path: "/api/v1/vehicles/abc/status", body: valid, status: http.StatusBadRequest, wantErrMsg: msgInvalidVehicleID},
		{name: "zero id", path: "/api/v1/vehicles/0/status", body: valid, status: http.StatusBadRequest, wantErrMsg: msgInvalidVehicleID},
		{name: "malformed body", path: "/api/v1/vehicles/3/status", body: `[]`, status: http.StatusBadRequest, wantErrMsg: msgInvalidRequestBody},
		{name: "unknown status", path: "/api/v1/vehicles/3/status", body: `{"status":"stolen","reason":"x"}`, err: vehicles.ErrInvalidStatus, status: http.StatusBadRequest, wantErrMsg: msgInvalidStatus},
		{name: "missing reason", path: "/api/v1/vehicles/3/status", body: `{"status":"maintenance"}`, err: vehicles.ErrReasonRequired, status: http.StatusBadRequest, wantErrMsg: msgReasonRequired},
		{
			name:       "validation",
			path:       "/api/v1/vehicles/3/status",
			body:       valid,
			err:        &domain.ValidationError{Field: "reason", Rule: "too long"},
			status:     http.StatusBadRequest,
			wantErrMsg: msgInvalidRequestBody,
		},
		{name: "not found", path: "/api/v1/vehicles/3/status", body: valid, err: vehicles.ErrVehicleNotFound, status: http.StatusNotFound, wantErrMsg: msgNotFound},
		{name: "retries exhausted", path: "/api/v1/vehicles/3/status", body: valid, err: domain.ErrConcurrency, status: http.StatusServiceUnavailable},
		{name: "internal", path: "/api/v1/vehicles/3/status", body: valid, err: vehicles.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
			if tt.wantErrMsg != "" {
				assert.Equal(t, tt.wantErrMsg, errResp.Error)
			}
		})
	}
}

func TestHandle_RetryAfterHeader(t *testing.T) {
	rec := serve(&stubService{err: domain.ErrConcurrency}, "/api/v1/vehicles/3/status", `{"status":"available","reason":"inspected"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
