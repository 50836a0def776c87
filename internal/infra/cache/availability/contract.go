package availability

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client подмножество команд redis, которое использует кэш (реализуется *redis.Client)
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик обращений к кэшу
type Metrics interface {
	IncCacheRequest(result string)
}
