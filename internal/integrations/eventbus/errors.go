package eventbus

import "errors"

var (
	// ErrMarshal возвращается, когда событие не удалось сериализовать
	ErrMarshal = errors.New("eventbus: failed to marshal event")

	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("eventbus: failed to connect to broker")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("eventbus: failed to publish event")

	// ErrUnknownDriver возвращается при неизвестном драйвере событий
	ErrUnknownDriver = errors.New("eventbus: unknown driver")
)
