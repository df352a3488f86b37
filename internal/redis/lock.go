package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("блокировка слота не получена")

// Locker ограждает критическую секцию бронирования одного слота. Сама
// гарантия "не более одного победителя" обеспечивается условным UPDATE в
// репозитории; блокировка лишь снимает лишнюю конкуренцию за строку.
type Locker interface {
	WithSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error
}

type slotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &slotLocker{client: client, ttl: ttl}
}

func (l *slotLocker) WithSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%s", slotID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("ошибка получения блокировки слота: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *slotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("ошибка освобождения блокировки слота: %w", err)
	}
	return nil
}

type noopLocker struct{}

// NewNoopLocker возвращает заглушку для окружений без Redis.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) WithSlotLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
