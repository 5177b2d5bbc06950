package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache кэш агрегированного расписания занятости по датам.
// Хранит сериализованное представление целиком на дату; запись
// инвалидируется при любой мутации бронирований или блокировок дня.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кэш на основе подключения к Redis
func New(addr, password string, db int, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

// GetDay возвращает закэшированное представление занятости на дату.
// Промах кэша — (false, nil): вызывающий пересчитывает и кладет заново.
func (c *AvailabilityCache) GetDay(ctx context.Context, date time.Time, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, dayKey(date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("cache: GetDay - %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache: GetDay - unmarshal: %w", err)
	}
	return true, nil
}

// SetDay сохраняет представление занятости на дату
func (c *AvailabilityCache) SetDay(ctx context.Context, date time.Time, view interface{}) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("cache: SetDay - marshal: %w", err)
	}
	return c.client.Set(ctx, dayKey(date), payload, c.ttl).Err()
}

// InvalidateDate сбрасывает кэш занятости на дату
func (c *AvailabilityCache) InvalidateDate(ctx context.Context, date time.Time) error {
	return c.client.Del(ctx, dayKey(date)).Err()
}

// Ping проверяет доступность Redis при старте сервиса
func (c *AvailabilityCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает подключение к Redis
func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}

func dayKey(date time.Time) string {
	return fmt.Sprintf("availability:day:%s", date.Format("2006-01-02"))
}
