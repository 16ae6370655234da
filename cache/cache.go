// Package cache is the read cache for published content. Keys are scoped per
// entity so an admin write only drops what it changed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lms/config"

	"github.com/redis/go-redis/v9"
)

const ChapterListKey = "chapter:list"

func ChapterKey(id uint) string { return fmt.Sprintf("chapter:%d", id) }

func QuizKey(id uint) string { return fmt.Sprintf("quiz:%d", id) }

// Store is a JSON value cache.
type Store interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Default is the process-wide store, a no-op until Init finds a Redis server.
var Default Store = NoopStore{}

// TTL applies to every Set made through Remember.
var TTL = 5 * time.Minute

// Init connects to REDIS_ADDR. Without an address, or when Redis does not
// answer, caching stays disabled.
func Init(cfg *config.Config) {
	TTL = cfg.CacheTTL
	if cfg.RedisAddr == "" {
		log.Println("[CACHE] REDIS_ADDR not set, caching disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[CACHE] Error connecting to Redis at %s: %v. Caching disabled", cfg.RedisAddr, err)
		return
	}

	Default = NewRedisStore(client)
	log.Printf("[CACHE] Connected to Redis at %s", cfg.RedisAddr)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

type NoopStore struct{}

func (NoopStore) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NoopStore) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopStore) Delete(context.Context, ...string) error               { return nil }

// Remember reads key into dest, or calls load, stores its result and copies
// it into dest. Cache failures are logged and never fail the read.
func Remember[T any](ctx context.Context, s Store, key string, dest *T, load func() (T, error)) error {
	found, err := s.Get(ctx, key, dest)
	if err != nil {
		log.Printf("[CACHE] %v", err)
	}
	if found {
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}
	*dest = value

	if err := s.Set(ctx, key, value, TTL); err != nil {
		log.Printf("[CACHE] set %s: %v", key, err)
	}
	return nil
}

// InvalidateChapter drops the chapter detail and the listing.
func InvalidateChapter(ctx context.Context, s Store, chapterID uint) {
	if err := s.Delete(ctx, ChapterKey(chapterID), ChapterListKey); err != nil {
		log.Printf("[CACHE] invalidate chapter %d: %v", chapterID, err)
	}
}

// InvalidateQuiz drops the quiz and the detail of the chapter listing it.
func InvalidateQuiz(ctx context.Context, s Store, quizID, chapterID uint) {
	if err := s.Delete(ctx, QuizKey(quizID), ChapterKey(chapterID)); err != nil {
		log.Printf("[CACHE] invalidate quiz %d: %v", quizID, err)
	}
}

// InvalidateChapterDetail drops only the chapter detail, for slide changes.
func InvalidateChapterDetail(ctx context.Context, s Store, chapterID uint) {
	if err := s.Delete(ctx, ChapterKey(chapterID)); err != nil {
		log.Printf("[CACHE] invalidate chapter detail %d: %v", chapterID, err)
	}
}
