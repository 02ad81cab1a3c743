package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInMemoryListCacheStoreRoundTrip(t *testing.T) {
	store := NewInMemoryListCacheStore()
	ctx := context.Background()

	if err := store.Set(ctx, "tables", "page=1", []byte(`{"a":1}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, "tables", "page=1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected payload %q", got)
	}

	if _, ok, _ := store.Get(ctx, "tables", "page=2"); ok {
		t.Fatal("unexpected hit for different key")
	}
	if _, ok, _ := store.Get(ctx, "products", "page=1"); ok {
		t.Fatal("unexpected hit for different namespace")
	}
}

func TestInMemoryListCacheStoreInvalidateNamespaceIsScoped(t *testing.T) {
	store := NewInMemoryListCacheStore()
	ctx := context.Background()

	_ = store.Set(ctx, "tables", "k", []byte("t"), time.Minute)
	_ = store.Set(ctx, "products", "k", []byte("p"), time.Minute)

	if err := store.InvalidateNamespace(ctx, "tables"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "tables", "k"); ok {
		t.Fatal("tables entry should be gone")
	}
	if _, ok, _ := store.Get(ctx, "products", "k"); !ok {
		t.Fatal("products entry should survive")
	}
}

func TestInMemoryListCacheStoreExpiry(t *testing.T) {
	store := NewInMemoryListCacheStore()
	ctx := context.Background()

	_ = store.Set(ctx, "tables", "k", []byte("t"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "tables", "k"); ok {
		t.Fatal("expected entry to expire")
	}

	if err := store.Set(ctx, "tables", "k", []byte("t"), 0); err != nil {
		t.Fatalf("set with zero ttl: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "tables", "k"); ok {
		t.Fatal("zero ttl must not cache")
	}
}

func newRedisListCacheStoreForTest(t *testing.T) (*RedisListCacheStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisListCacheStore(client, "test_cache"), mr
}

func TestRedisListCacheStoreRoundTrip(t *testing.T) {
	store, _ := newRedisListCacheStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, "tables", "page=1", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, "tables", "page=1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "payload" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestRedisListCacheStoreInvalidateNamespace(t *testing.T) {
	store, mr := newRedisListCacheStoreForTest(t)
	ctx := context.Background()

	_ = store.Set(ctx, "tables", "a", []byte("1"), time.Minute)
	_ = store.Set(ctx, "tables", "b", []byte("2"), time.Minute)
	_ = store.Set(ctx, "products", "a", []byte("3"), time.Minute)

	if err := store.InvalidateNamespace(ctx, "tables"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "tables", "a"); ok {
		t.Fatal("tables/a should be gone")
	}
	if _, ok, _ := store.Get(ctx, "tables", "b"); ok {
		t.Fatal("tables/b should be gone")
	}
	if _, ok, _ := store.Get(ctx, "products", "a"); !ok {
		t.Fatal("products/a should survive")
	}

	// the namespace index set itself is dropped too
	for _, key := range mr.Keys() {
		if key == "test_cache:index:tables" {
			t.Fatal("namespace index should have been deleted")
		}
	}
}

func TestRedisListCacheStoreExpiry(t *testing.T) {
	store, mr := newRedisListCacheStoreForTest(t)
	ctx := context.Background()

	_ = store.Set(ctx, "tables", "a", []byte("1"), time.Second)
	mr.FastForward(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "tables", "a"); ok {
		t.Fatal("expected entry to expire")
	}
}
