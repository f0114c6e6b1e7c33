// Package distlock provides keyed mutual exclusion, backed by Redis when a
// client is available and by process memory otherwise.
package distlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a single named lock.
type Lock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// Locker hands out locks by key.
type Locker interface {
	NewLock(key string) Lock
}

// NewLocker returns a Redis-backed Locker when client is non-nil, otherwise
// an in-process one. ttl bounds how long a crashed holder keeps a Redis key.
func NewLocker(client *redis.Client, ttl time.Duration) Locker {
	if client != nil {
		return &RedisLocker{client: client, ttl: ttl}
	}
	return NewLocalLocker()
}

// RedisLocker creates RedisLocks sharing one client and TTL.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLock implements Locker.
func (l *RedisLocker) NewLock(key string) Lock {
	return NewRedisLock(l.client, key, l.ttl)
}

// LocalLocker guards keys within a single process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]string
}

// NewLocalLocker creates a new LocalLocker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]string)}
}

// NewLock implements Locker.
func (l *LocalLocker) NewLock(key string) Lock {
	return &localLock{locker: l, key: key, value: randomValue()}
}

type localLock struct {
	locker *LocalLocker
	key    string
	value  string
}

func (k *localLock) Acquire(ctx context.Context) (bool, error) {
	k.locker.mu.Lock()
	defer k.locker.mu.Unlock()
	if _, ok := k.locker.held[k.key]; ok {
		return false, nil
	}
	k.locker.held[k.key] = k.value
	return true, nil
}

func (k *localLock) Release(ctx context.Context) error {
	k.locker.mu.Lock()
	defer k.locker.mu.Unlock()
	if k.locker.held[k.key] == k.value {
		delete(k.locker.held, k.key)
	}
	return nil
}

func randomValue() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
