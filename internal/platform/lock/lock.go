// Package lock provides the critical section that serializes state mutations,
// either within one process or across processes sharing a Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when the lock could not be taken before the
// wait expired.
var ErrNotObtained = errors.New("lock: not obtained")

// Release gives the lock back.
type Release func(ctx context.Context) error

// Locker hands out the single global lock.
type Locker interface {
	Acquire(ctx context.Context) (Release, error)
}

// Local is an in-process lock that honours context cancellation.
type Local struct {
	ch chan struct{}
}

// NewLocal returns an unlocked Local.
func NewLocal() *Local {
	return &Local{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is free or ctx is done.
func (l *Local) Acquire(ctx context.Context) (Release, error) {
	select {
	case l.ch <- struct{}{}:
		return func(context.Context) error {
			<-l.ch
			return nil
		}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrNotObtained, ctx.Err())
	}
}

// Redis is a lock held as a Redis key, shared by every process using the
// same key.
type Redis struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	wait   time.Duration
}

// DefaultKey is the lock key used when none is configured.
const DefaultKey = "bakery:lock:state"

// NewRedis builds a Redis lock. ttl bounds how long a crashed holder can
// block others and is extended while the holder is alive; wait bounds how long Acquire retries, and a non-positive
// wait retries until the caller context is done.
func NewRedis(client redis.UniversalClient, key string, ttl, wait time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{client: redislock.New(client), key: key, ttl: ttl, wait: wait}
}

// Acquire retries until the key is obtained or the wait expires.
func (r *Redis) Acquire(ctx context.Context) (Release, error) {
	obtainCtx := ctx
	if r.wait > 0 {
		var cancel context.CancelFunc
		obtainCtx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}
	l, err := r.client.Obtain(obtainCtx, r.key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(25 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, r.key)
	}
	if err != nil {
		return nil, fmt.Errorf("lock: obtain %s: %w", r.key, err)
	}
	stop, done := make(chan struct{}), make(chan struct{})
	go r.keepAlive(l, stop, done)
	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stop) })
		<-done
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("lock: release %s: %w", r.key, err)
		}
		return nil
	}, nil
}

// keepAlive extends the key every half ttl until stop is closed, so a holder
// that outlives its ttl keeps the lock. It gives up once the key is lost.
func (r *Redis) keepAlive(l *redislock.Lock, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl/2)
			err := l.Refresh(ctx, r.ttl, nil)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
