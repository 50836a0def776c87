package eventbus

import "context"

// Publisher публикует события бронирований после фиксации транзакции
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик публикаций
type Metrics interface {
	IncEventPublished(event, result string)
}
