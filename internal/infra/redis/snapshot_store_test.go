package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"trivia-board-host/internal/domain"
	"trivia-board-host/internal/infra/memory"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	mr := runMiniredis(t)
	store := NewSnapshotStore(newClient(mr))
	ctx := context.Background()

	if _, err := store.Get(ctx, "quizState"); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Set(ctx, "quizState", []byte(`{"teams":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("trivia:snapshot:quizState") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("trivia:snapshot:quizState"); ttl != 0 {
		t.Fatalf("standalone snapshots must not expire, ttl=%v", ttl)
	}
	got, err := store.Get(ctx, "quizState")
	if err != nil || string(got) != `{"teams":[]}` {
		t.Fatalf("unexpected value %q %v", got, err)
	}
}

func TestCachedSnapshotStoreReadsThrough(t *testing.T) {
	mr := runMiniredis(t)
	ctx := context.Background()

	fallback := &countingFallback{SnapshotStore: memory.NewSeededSnapshotStore(map[string][]byte{
		"quizState": []byte(`{"from":"postgres"}`),
	})}
	store := NewCachedSnapshotStore(newClient(mr), fallback, time.Minute)

	if _, err := store.Get(ctx, "quizState"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if fallback.gets != 1 {
		t.Fatalf("expected fallback called once, got %d", fallback.gets)
	}

	// Second call should hit cache, fallback not incremented.
	_, _ = store.Get(ctx, "quizState")
	if fallback.gets != 1 {
		t.Fatalf("expected cache hit, fallback gets=%d", fallback.gets)
	}
	if ttl := mr.TTL("trivia:snapshot:quizState"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with jitter, got %v", ttl)
	}
}

func TestCachedSnapshotStoreWritesThrough(t *testing.T) {
	mr := runMiniredis(t)
	ctx := context.Background()
	fallback := &countingFallback{SnapshotStore: memory.NewSnapshotStore()}
	store := NewCachedSnapshotStore(newClient(mr), fallback, time.Minute)

	if err := store.Set(ctx, "quizState", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := fallback.SnapshotStore.Get(ctx, "quizState")
	if err != nil || string(got) != "v1" {
		t.Fatalf("expected write-through, got %q %v", got, err)
	}

	mr.FlushAll()
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected fallback miss to surface, got %v", err)
	}
}

type countingFallback struct {
	*memory.SnapshotStore
	gets int
}

func (f *countingFallback) Get(ctx context.Context, key string) ([]byte, error) {
	f.gets++
	return f.SnapshotStore.Get(ctx, key)
}

func runMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
