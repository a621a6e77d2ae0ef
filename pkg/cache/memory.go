package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data     []byte
	savedAt  time.Time
	accessed time.Time
}

// MemoryStore implements Store using in-memory storage with LRU eviction.
type MemoryStore struct {
	mutex   sync.RWMutex
	data    map[string]*memoryEntry
	maxSize int
}

// NewMemoryStore creates an in-memory snapshot store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		MaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryStore{
		data:    make(map[string]*memoryEntry),
		maxSize: cfg.MaxSize,
	}
}

func (ms *MemoryStore) SaveJSON(_ context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if _, exists := ms.data[key]; !exists && len(ms.data) >= ms.maxSize {
		ms.evictLRU()
	}

	now := time.Now()
	ms.data[key] = &memoryEntry{data: payload, savedAt: now, accessed: now}
	return nil
}

func (ms *MemoryStore) LoadJSON(_ context.Context, key string, dest any) (bool, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	entry, ok := ms.data[key]
	if !ok {
		return false, nil
	}
	entry.accessed = time.Now()

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (ms *MemoryStore) Fresh(_ context.Context, key string, maxAge time.Duration) bool {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	entry, ok := ms.data[key]
	if !ok {
		return false
	}
	return time.Since(entry.savedAt) <= maxAge
}

func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	for _, key := range keys {
		delete(ms.data, key)
	}
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

func (ms *MemoryStore) evictLRU() {
	var oldestKey string
	oldestTime := time.Now()

	for key, entry := range ms.data {
		if entry.accessed.Before(oldestTime) {
			oldestTime = entry.accessed
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(ms.data, oldestKey)
	}
}
