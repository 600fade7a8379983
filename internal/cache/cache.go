// Package cache provides a read-through cache for list reads, backed by Redis or process memory.
//
// Values are stored as JSON so both backends share encoding and callers can round-trip any
// exported struct.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Keys used by the song service.
const (
	KeyArtists = "artists"
	KeySongs   = "songs"
)

// Cache stores JSON-encoded values by key.
type Cache interface {
	// Get decodes the value at key into dest. It reports false when the key is absent or expired.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores v at key.
	Set(ctx context.Context, key string, v any) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// ArtistSongsKey is the key for one artist's song list.
func ArtistSongsKey(artistID int64) string {
	return fmt.Sprintf("artists:%d:songs", artistID)
}

// Fetch returns the cached value at key, or calls load, stores its result and returns it.
//
// Cache failures fall through to load. A failed store is ignored.
func Fetch[T any](ctx context.Context, c Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c == nil {
		return load(ctx)
	}

	if ok, err := c.Get(ctx, key, &v); err == nil && ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	_ = c.Set(ctx, key, v)
	return v, nil
}

type entry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is an in-process [Cache]. A zero TTL never expires entries.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	e := entry{data: data}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
