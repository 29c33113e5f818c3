package notifier

import "errors"

var (
	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("notifier: failed to encode event")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notifier: failed to publish event")

	// ErrInvalidResponse возвращается при неожиданном ответе webhook
	ErrInvalidResponse = errors.New("notifier: invalid webhook response")
)
