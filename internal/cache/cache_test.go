package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/maptrivia/internal/trivia"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]time.Duration
	err  error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.data[key]
	if !ok {
		return nil, errMiss
	}
	return b, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttl[key] = ttl
	return nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return m.err
}

type countingSource struct {
	places, questions int
	err               error
}

func (c *countingSource) Places(context.Context) (trivia.PlacesDoc, error) {
	c.places++
	return trivia.PlacesDoc{Places: []trivia.Place{{Name: "Home", GeoLat: 1, GeoLong: 2}}}, c.err
}

func (c *countingSource) Questions(context.Context) (trivia.QuestionsDoc, error) {
	c.questions++
	return trivia.QuestionsDoc{Questions: []trivia.QuestionEntry{{Question: "Q?", Answers: []string{"A"}}}}, c.err
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSourceCachesDocuments(t *testing.T) {
	ctx := context.Background()
	next := &countingSource{}
	kv := newMemKV()
	s := New(next, kv, time.Minute, discard())

	for range 3 {
		p, err := s.Places(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if p.Places[0].Name != "Home" {
			t.Errorf("places = %+v", p)
		}
		if _, err := s.Questions(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if next.places != 1 || next.questions != 1 {
		t.Errorf("upstream calls = %d/%d, want 1/1", next.places, next.questions)
	}
	if kv.ttl[placesKey] != time.Minute {
		t.Errorf("ttl = %v", kv.ttl[placesKey])
	}

	if err := s.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Places(ctx); err != nil {
		t.Fatal(err)
	}
	if next.places != 2 {
		t.Errorf("places not refetched after Invalidate")
	}
}

func TestSourceFallsThroughWhenCacheDown(t *testing.T) {
	kv := newMemKV()
	kv.err = errors.New("connection refused")
	next := &countingSource{}
	s := New(next, kv, time.Minute, discard())

	if _, err := s.Places(context.Background()); err != nil {
		t.Fatalf("Places with cache down: %v", err)
	}
	if next.places != 1 {
		t.Errorf("upstream calls = %d", next.places)
	}
}

func TestSourceDoesNotCacheFailures(t *testing.T) {
	kv := newMemKV()
	next := &countingSource{err: errors.New("boom")}
	s := New(next, kv, time.Minute, discard())

	if _, err := s.Questions(context.Background()); err == nil {
		t.Fatal("expected upstream error")
	}
	if _, ok := kv.data[questionsKey]; ok {
		t.Error("failed fetch was cached")
	}
}

func TestSourceDiscardsCorruptEntry(t *testing.T) {
	kv := newMemKV()
	kv.data[placesKey] = []byte("{not json")
	next := &countingSource{}
	s := New(next, kv, time.Minute, discard())

	p, err := s.Places(context.Background())
	if err != nil || len(p.Places) != 1 {
		t.Fatalf("Places = %+v, %v", p, err)
	}
	if next.places != 1 {
		t.Errorf("upstream not consulted for corrupt entry")
	}
}

func TestRedisKVUnreachable(t *testing.T) {
	// Nothing listens on port 1; the adapter must surface an error, not a miss.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()

	_, err := RedisKV{Client: rdb}.Get(context.Background(), placesKey)
	if err == nil || errors.Is(err, errMiss) {
		t.Fatalf("err = %v, want connection error", err)
	}
}
