package jobs

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/logger"
)

type stubResyncer struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (s *stubResyncer) ResyncAll(ctx context.Context) (*models.ResyncReport, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return &models.ResyncReport{Checked: 3, Changed: 1}, nil
}

func discard() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}

func TestNewScheduler_InvalidCronExpr(t *testing.T) {
	_, err := NewScheduler("every night", time.UTC, time.Minute, &stubResyncer{}, discard())
	assert.Error(t, err)
}

func TestScheduler_NextRun(t *testing.T) {
	s, err := NewScheduler("0 5 0 * * *", time.UTC, time.Minute, &stubResyncer{}, discard())
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	next := s.NextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 5, next.Minute())
}

func TestScheduler_RunResync(t *testing.T) {
	r := &stubResyncer{}
	s, err := NewScheduler("0 5 0 * * *", time.UTC, time.Minute, r, discard())
	require.NoError(t, err)

	s.RunResync()
	assert.Equal(t, int32(1), r.calls.Load())

	r.err = errors.New("db down")
	s.RunResync()
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	r := &stubResyncer{release: make(chan struct{})}
	s, err := NewScheduler("0 5 0 * * *", time.UTC, time.Minute, r, discard())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.RunResync()
		close(done)
	}()

	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.RunResync()
	assert.Equal(t, int32(1), r.calls.Load())

	close(r.release)
	<-done
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	r := &stubResyncer{}
	s, err := NewScheduler("* * * * * *", time.UTC, time.Minute, r, discard())
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
