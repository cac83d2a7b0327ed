package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"greenacademy/config"

	goredis "github.com/redis/go-redis/v9"
)

// Store is the key-value capability the controllers depend on. Keeping it
// an interface lets tests run against the in-memory implementation instead
// of a live Redis.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Client is the process-wide cache store, set by Connect (or swapped for a
// memory store in tests).
var Client Store = NewMemoryStore()

// Key builds a deterministic cache key from a scope and an id,
// e.g. Key("enrollments", 7) -> "enrollments:7".
func Key(scope string, id uint) string {
	return fmt.Sprintf("%s:%d", scope, id)
}

// Connect dials Redis and installs it as the global cache store.
func Connect() {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        config.AppConfig.RedisAddr,
		Password:    config.AppConfig.RedisPassword,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	Client = &redisStore{rdb: rdb}
	log.Println("Connected to Redis at", config.AppConfig.RedisAddr)
}

type redisStore struct {
	rdb *goredis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("Cache get failed for %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	// Best effort: a cache failure must never abort the primary operation.
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("Cache set failed for %s: %v", key, err)
	}
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Cache delete failed for %v: %v", keys, err)
	}
}

// MemoryStore is a TTL map used by tests and as a fallback before Connect.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// Has reports whether a live entry exists, without extending it. Test helper.
func (s *MemoryStore) Has(key string) bool {
	_, ok := s.Get(context.Background(), key)
	return ok
}
