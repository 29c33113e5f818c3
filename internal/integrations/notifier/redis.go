package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher публикует события в канал Redis Pub/Sub
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisPublisher создает публикатор для указанного канала
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Name() string {
	return "redis:" + p.channel
}

// Publish отправляет событие в канал. Отсутствие подписчиков ошибкой не считается.
func (p *RedisPublisher) Publish(ctx context.Context, event Envelope) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("%w: redis channel %s: %w", ErrPublish, p.channel, err)
	}
	return nil
}
