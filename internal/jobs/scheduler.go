package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler запускает пересчёт статусов по расписанию.
// Запись обслуживания scheduled становится блокирующей в полночь без каких-либо изменений в БД,
// поэтому сохранённый статус обновляется ночным заданием.
type Scheduler struct {
	cron     *cron.Cron
	resyncer StatusResyncer
	timeout  time.Duration
	running  atomic.Bool
	logger   Logger
}

// NewScheduler создает планировщик. cronExpr - cron-выражение с секундами, например "0 5 0 * * *".
func NewScheduler(cronExpr string, location *time.Location, timeout time.Duration, resyncer StatusResyncer, logger Logger) (*Scheduler, error) {
	if location == nil {
		location = time.UTC
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		resyncer: resyncer,
		timeout:  timeout,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(cronExpr, s.RunResync); err != nil {
		return nil, fmt.Errorf("jobs: invalid status resync schedule %q: %w", cronExpr, err)
	}
	return s, nil
}

// RunResync выполняет пересчёт один раз. Параллельный запуск пропускается.
func (s *Scheduler) RunResync() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("StatusResync: previous run still in progress, skipping")
		return
	}
	defer s.running.Store(false)

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	report, err := s.resyncer.ResyncAll(ctx)
	if err != nil {
		s.logger.Error("StatusResync: failed after %s: %v", time.Since(started), err)
		return
	}

	s.logger.Info("StatusResync: done in %s, checked=%d changed=%d skipped=%d failed=%d",
		time.Since(started), report.Checked, report.Changed, report.Skipped, report.Failed)
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler: starting, %d job(s) registered", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенного задания
func (s *Scheduler) Stop() {
	s.logger.Info("Scheduler: stopping")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler: stopped")
}

// NextRun время следующего запуска пересчёта
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
