package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("query", time.Millisecond, nil)
		m.SetDBPoolStats(1, 1, 0)
		m.IncBooking("create", "ok")
		m.IncBookingConflict("rental")
		m.IncTxRetry()
		m.IncStatusDerivation("available")
		m.IncNotification("sent")
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "carvo-rentals")

	m.IncBooking("create", "ok")
	m.IncBooking("create", "ok")
	m.IncBookingConflict("maintenance")
	m.IncTxRetry()
	m.ObserveDBQuery("exec", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingConflicts.WithLabelValues("maintenance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txRetries))
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "carvo_rentals", namespace("Carvo-Rentals"))
	assert.Equal(t, "carvo", namespace(""))
}
