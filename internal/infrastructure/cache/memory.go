package cache

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Store is a string key-value store with per-key expiration
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store, used when Redis is disabled
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	clock clock.Clock
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store. Call Close to stop the
// background sweep.
func NewMemoryStore(c clock.Clock) *MemoryStore {
	if c == nil {
		c = clock.New()
	}
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		clock: c,
		stop:  make(chan struct{}),
	}

	go store.cleanupExpired(5 * time.Minute)

	return store
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(_ context.Context, key, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = &memoryItem{
		value:      value,
		expireTime: ms.clock.Now().Add(expiration),
	}
	return nil
}

// Get retrieves a value by key; expired keys are reported as missing
func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists || !ms.clock.Now().Before(item.expireTime) {
		return "", false, nil
	}
	return item.value, true, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
	return nil
}

// Len returns the number of stored keys, including expired ones not yet swept
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.items)
}

// Close stops the background sweep
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := ms.clock.Ticker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.sweep()
		}
	}
}

func (ms *MemoryStore) sweep() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	for key, item := range ms.items {
		if !now.Before(item.expireTime) {
			delete(ms.items, key)
		}
	}
}
