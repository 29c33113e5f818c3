package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookPublisher отправляет события POST-запросом на внешний адрес
type WebhookPublisher struct {
	url        string
	httpClient *http.Client
}

// NewWebhookPublisher создает публикатор с таймаутом запроса
func NewWebhookPublisher(url string, timeout time.Duration) *WebhookPublisher {
	return &WebhookPublisher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *WebhookPublisher) Name() string {
	return "webhook"
}

// Publish отправляет событие; любой ответ кроме 2xx считается ошибкой доставки
func (p *WebhookPublisher) Publish(ctx context.Context, event Envelope) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Id", event.ID)
	req.Header.Set("X-Event-Kind", string(event.Kind))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrPublish, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(msg))
	}
	return nil
}
