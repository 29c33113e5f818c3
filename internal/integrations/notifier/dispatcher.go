package notifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
)

// Dispatcher принимает уведомления без блокировки вызывающего и доставляет их
// в фоне с ограничением частоты. Ошибки доставки только логируются.
type Dispatcher struct {
	publishers []Publisher
	queue      chan Envelope
	limiter    *rate.Limiter
	timeout    time.Duration
	metrics    MetricsRecorder
	logger     Logger
	now        func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер. Доставка начинается после Start.
func NewDispatcher(cfg Config, publishers []Publisher, metrics MetricsRecorder, logger Logger) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		publishers: publishers,
		queue:      make(chan Envelope, cfg.QueueSize),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		timeout:    cfg.PublishTimeout,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Start запускает фоновую доставку
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Notify ставит событие в очередь. При переполненной очереди событие отбрасывается.
func (d *Dispatcher) Notify(_ context.Context, kind domain.EventKind, payload interface{}) {
	event := NewEnvelope(kind, payload, d.now())

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Notifier: dispatcher closed, event %s (%s) dropped", event.ID, kind)
		d.count(resultDropped)
		return
	}

	select {
	case d.queue <- event:
	default:
		d.logger.Warn("Notifier: queue full, event %s (%s) dropped", event.ID, kind)
		d.count(resultDropped)
	}
}

// Close прекращает приём событий и ждёт доставки очереди, но не дольше ctx
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for event := range d.queue {
		if err := d.limiter.Wait(context.Background()); err != nil {
			d.logger.Error("Notifier: rate limiter: %v", err)
		}
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Envelope) {
	for _, p := range d.publishers {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := p.Publish(ctx, event)
		cancel()

		if err != nil {
			d.logger.Error("Notifier: %s: event %s (%s) not delivered: %v", p.Name(), event.ID, event.Kind, err)
			d.count(resultFailed)
			continue
		}
		d.count(resultSent)
	}
}

func (d *Dispatcher) count(result string) {
	if d.metrics != nil {
		d.metrics.IncNotification(result)
	}
}

// Noop приёмник уведомлений, который ничего не делает
type Noop struct{}

func (Noop) Notify(context.Context, domain.EventKind, interface{}) {}
