package notifier

import "context"

// Publisher доставляет событие во внешний канал
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event Envelope) error
}

// MetricsRecorder счётчик доставки уведомлений
type MetricsRecorder interface {
	IncNotification(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
