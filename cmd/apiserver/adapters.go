package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
)

// serviceLogger adapts the structured logger to the application service's
// keysAndValues logging surface.
type serviceLogger struct {
	l logging.Logger
}

func kvFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields = append(fields, logging.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (s *serviceLogger) Debug(_ context.Context, msg string, kv ...interface{}) {
	s.l.Debug(msg, kvFields(kv)...)
}

func (s *serviceLogger) Info(_ context.Context, msg string, kv ...interface{}) {
	s.l.Info(msg, kvFields(kv)...)
}

func (s *serviceLogger) Warn(_ context.Context, msg string, kv ...interface{}) {
	s.l.Warn(msg, kvFields(kv)...)
}

func (s *serviceLogger) Error(_ context.Context, msg string, kv ...interface{}) {
	s.l.Error(msg, kvFields(kv)...)
}

// memoryCache is the single-process fallback when Redis is disabled.  Entries
// are stored as JSON so Get has the same copy semantics as the Redis cache.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return errors.NotFound("cache miss")
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return errors.NotFound("cache miss")
	}
	return json.Unmarshal(entry.data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

//Personal.AI order the ending
