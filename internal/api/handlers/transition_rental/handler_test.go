package transition_rental

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
)

type stubService struct {
	gotID  int64
	gotReq *models.TransitionRequest
	resp   *models.RentalResponse
	err    error
}

func (s *stubService) Transition(_ context.Context, id int64, req *models.TransitionRequest) (*models.RentalResponse, error) {
	s.gotID = id
	s.gotReq = req
	return s.resp, s.err
}

func serve(svc *stubService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/rentals/{rentalId}/status", NewHandler(svc, logger.NewWithWriter(io.Discard, "error")).Handle).
		Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body)))
	return rec
}

func TestHandle_StatusChanged(t *testing.T) {
	svc := &stubService{resp: &models.RentalResponse{
		ID: 12, Code: "RNT-0000000C", Status: string(domain.RentalActive),
		VehicleStatus: string(domain.VehicleRented),
	}}

	rec := serve(svc, "/api/v1/rentals/12/status", `{"status":"active"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.gotID)
	assert.Equal(t, "active", svc.gotReq.Status)
	assert.False(t, svc.gotReq.AdminCorrection)

	var body models.RentalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(domain.RentalActive), body.Status)
	assert.Equal(t, string(domain.VehicleRented), body.VehicleStatus)
}

func TestHandle_AdminCorrectionPassedThrough(t *testing.T) {
	svc := &stubService{resp: &models.RentalResponse{ID: 12, Status: string(domain.RentalCompleted)}}

	rec := serve(svc, "/api/v1/rentals/12/status", `{"status":"completed","adminCorrection":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.gotReq.AdminCorrection)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{name: "bad id", path: "/api/v1/rentals/x/status", body: `{"status":"active"}`, status: http.StatusBadRequest},
		{name: "negative id", path: "/api/v1/rentals/-3/status", body: `{"status":"active"}`, status: http.StatusBadRequest},
		{name: "unknown field", path: "/api/v1/rentals/12/status", body: `{"state":"active"}`, status: http.StatusBadRequest},
		{name: "malformed body", path: "/api/v1/rentals/12/status", body: `{`, status: http.StatusBadRequest},
		{name: "unknown status", path: "/api/v1/rentals/12/status", body: `{"status":"lost"}`, err: rentals.ErrInvalidStatus, status: http.StatusBadRequest},
		{
			name:   "transition rejected",
			path:   "/api/v1/rentals/12/status",
			body:   `{"status":"active"}`,
			err:    fmt.Errorf("%w: completed -> active", rentals.ErrInvalidTransition),
			status: http.StatusBadRequest,
		},
		{name: "not found", path: "/api/v1/rentals/12/status", body: `{"status":"active"}`, err: rentals.ErrRentalNotFound, status: http.StatusNotFound},
		{name: "retries exhausted", path: "/api/v1/rentals/12/status", body: `{"status":"active"}`, err: domain.ErrConcurrency, status: http.StatusServiceUnavailable},
		{name: "internal", path: "/api/v1/rentals/12/status", body: `{"status":"active"}`, err: rentals.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestHandle_TransitionRejectedDetails(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: cancelled -> active", rentals.ErrInvalidTransition)}

	rec := serve(svc, "/api/v1/rentals/12/status", `{"status":"active"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error   string                     `json:"error"`
		Details handlers.ValidationDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgInvalidTransition, body.Error)
	assert.Contains(t, body.Details.Rule, "cancelled -> active")
}
