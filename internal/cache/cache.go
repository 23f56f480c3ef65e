// Package cache puts a Redis cache in front of a loader.Source so repeated
// dataset loads skip the database or the remote fetch.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/maptrivia/internal/loader"
	"github.com/playperu/maptrivia/internal/trivia"
)

const (
	placesKey    = "maptrivia:places"
	questionsKey = "maptrivia:questions"
)

var errMiss = errors.New("cache miss")

// KV is the slice of Redis the cache needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisKV adapts *redis.Client to KV.
type RedisKV struct{ Client *redis.Client }

func (r RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	return b, err
}

func (r RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r RedisKV) Del(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

// Source serves datasets from the cache and falls through to the wrapped
// source on a miss. Cache failures are logged and never fail a load.
type Source struct {
	next   loader.Source
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

var _ loader.Source = (*Source)(nil)

func New(next loader.Source, kv KV, ttl time.Duration, logger *slog.Logger) *Source {
	return &Source{next: next, kv: kv, ttl: ttl, logger: logger}
}

func (s *Source) Places(ctx context.Context) (trivia.PlacesDoc, error) {
	return cached(ctx, s, placesKey, s.next.Places)
}

func (s *Source) Questions(ctx context.Context) (trivia.QuestionsDoc, error) {
	return cached(ctx, s, questionsKey, s.next.Questions)
}

// Invalidate drops both cached documents, e.g. after a catalog import.
func (s *Source) Invalidate(ctx context.Context) error {
	if err := s.kv.Del(ctx, placesKey, questionsKey); err != nil {
		return fmt.Errorf("invalidating dataset cache: %w", err)
	}
	return nil
}

func cached[T any](ctx context.Context, s *Source, key string, fetch func(context.Context) (T, error)) (T, error) {
	var doc T

	data, err := s.kv.Get(ctx, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err == nil {
			s.logger.Debug("dataset cache hit", "key", key)
			return doc, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "key", key)
	case !errors.Is(err, errMiss):
		s.logger.Warn("dataset cache unavailable", "key", key, "error", err)
	}

	doc, err = fetch(ctx)
	if err != nil {
		return doc, err
	}

	data, err = json.Marshal(doc)
	if err != nil {
		return doc, nil
	}
	if err := s.kv.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("storing dataset in cache failed", "key", key, "error", err)
	}
	return doc, nil
}
