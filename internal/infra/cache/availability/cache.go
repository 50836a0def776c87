// Package availability кэширует ответы расчета доступности в Redis.
// Любая ошибка Redis означает промах: расчет уходит в базу.
//
// Записи даты лежат под ключом с номером версии даты. InvalidateDate увеличивает версию,
// поэтому запись, посчитанная по данным до инвалидации, попадает под старую версию и не читается.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/TableBookingService/pkg/types"
)

const (
	keyPrefix = "tablebook:availability"

	// NoVersion версия неизвестна (Redis недоступен), Set ничего не пишет
	NoVersion int64 = -1

	minVersionTTL = 24 * time.Hour
)

// Cache кэш доступности по (дата, размер компании)
type Cache struct {
	client  Client
	ttl     time.Duration
	metrics Metrics
	log     Logger
}

// New создает кэш. client == nil дает выключенный кэш.
func New(client Client, ttl time.Duration, metrics Metrics, log Logger) *Cache {
	return &Cache{client: client, ttl: ttl, metrics: metrics, log: log}
}

// Enabled сообщает, подключен ли Redis
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get читает закэшированный ответ в dest. Возвращает текущую версию даты и признак попадания.
// Версию нужно передать в Set после расчета.
func (c *Cache) Get(ctx context.Context, date types.Date, partySize int, dest interface{}) (int64, bool) {
	if !c.Enabled() {
		return NoVersion, false
	}

	version, err := c.version(ctx, date)
	if err != nil {
		c.log.Warn("AvailabilityCache: read version date=%s failed: %v", date, err)
		c.observe("error")
		return NoVersion, false
	}

	payload, err := c.client.Get(ctx, entryKey(date, version, partySize)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.observe("miss")
		return version, false
	}
	if err != nil {
		c.log.Warn("AvailabilityCache: get date=%s partySize=%d failed: %v", date, partySize, err)
		c.observe("error")
		return NoVersion, false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		c.log.Warn("AvailabilityCache: corrupted entry date=%s partySize=%d: %v", date, partySize, err)
		c.observe("error")
		return version, false
	}

	c.observe("hit")
	return version, true
}

// Set сохраняет ответ под версией, прочитанной до расчета
func (c *Cache) Set(ctx context.Context, date types.Date, partySize int, version int64, value interface{}) {
	if !c.Enabled() || version < 0 {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Error("AvailabilityCache: marshal date=%s: %v", date, err)
		return
	}

	key := entryKey(date, version, partySize)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("AvailabilityCache: set %s failed: %v", key, err)
	}
}

// InvalidateDate переводит дату сервиса на новую версию
func (c *Cache) InvalidateDate(ctx context.Context, date types.Date) {
	if !c.Enabled() {
		return
	}

	key := versionKey(date)
	version, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		c.log.Warn("AvailabilityCache: invalidate date=%s failed: %v", date, err)
		return
	}
	if err := c.client.Expire(ctx, key, c.versionTTL()).Err(); err != nil {
		c.log.Warn("AvailabilityCache: expire %s failed: %v", key, err)
	}

	c.log.Info("AvailabilityCache: invalidated date=%s, version=%d", date, version)
}

func (c *Cache) version(ctx context.Context, date types.Date) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// versionTTL ключ версии живет намного дольше записей: к его истечению записи всех версий уже истекли
func (c *Cache) versionTTL() time.Duration {
	if ttl := 2 * c.ttl; ttl > minVersionTTL {
		return ttl
	}
	return minVersionTTL
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.IncCacheRequest(result)
	}
}

func entryKey(date types.Date, version int64, partySize int) string {
	return fmt.Sprintf("%s:%s:v%d:%d", keyPrefix, date, version, partySize)
}

func versionKey(date types.Date) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, date)
}
