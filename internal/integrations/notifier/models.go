package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Envelope событие в том виде, в котором оно уходит подписчикам
type Envelope struct {
	ID         string           `json:"id"`
	Kind       domain.EventKind `json:"kind"`
	OccurredAt time.Time        `json:"occurredAt"`
	Payload    interface{}      `json:"payload"`
}

// NewEnvelope оборачивает payload и присваивает событию уникальный ID
func NewEnvelope(kind domain.EventKind, payload interface{}, at time.Time) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: at.UTC(),
		Payload:    payload,
	}
}

// Config параметры диспетчера уведомлений
type Config struct {
	QueueSize      int
	RatePerSecond  float64
	Burst          int
	PublishTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 50
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 2 * time.Second
	}
	return c
}
