package locker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var ErrNotObtained = errors.New("lock is held by another process")

// Locker hands out short lived exclusive locks keyed by name.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

// New returns a Redis backed locker when rdb is set and an in-process one
// otherwise.
func New(rdb *redis.Client) Locker {
	if rdb == nil {
		return NewLocal()
	}
	return NewRedis(rdb)
}

type redisLocker struct {
	client *redislock.Client
	opts   *redislock.Options
}

func NewRedis(rdb *redis.Client) Locker {
	return &redisLocker{
		client: redislock.New(rdb),
		opts: &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 5),
		},
	}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, l.opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocal() Locker {
	return &localLocker{locks: make(map[string]*sync.Mutex)}
}

// Obtain does not wait; ttl is ignored because the holder always releases.
func (l *localLocker) Obtain(_ context.Context, key string, _ time.Duration) (Lock, error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, ErrNotObtained
	}
	return &localLock{m: m}, nil
}

type localLock struct {
	once sync.Once
	m    *sync.Mutex
}

func (l *localLock) Release(context.Context) error {
	l.once.Do(l.m.Unlock)
	return nil
}
