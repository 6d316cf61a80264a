// Package redislock implements a keyed lock on top of Redis SET NX PX,
// so that several service instances serialize work on the same key.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when the wait deadline passes before the key frees up.
var ErrLockNotAcquired = errors.New("redislock: lock not acquired")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	retry   time.Duration
	maxWait time.Duration
}

// New creates a locker. ttl bounds how long a crashed holder can keep the key.
func New(client *redis.Client, prefix string, ttl, maxWait time.Duration) *Locker {
	return &Locker{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		retry:   25 * time.Millisecond,
		maxWait: maxWait,
	}
}

// Lock spins on SETNX until the key is acquired, ctx is done or maxWait passes.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	deadline := time.Now().Add(l.maxWait)
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redislock: setnx %s: %w", fullKey, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, fullKey)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		// Снимаем блокировку даже если контекст запроса уже отменен
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{fullKey}, token).Err()
	}, nil
}
