package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/mediavault/pkg/cache"
	"github.com/yeisme/mediavault/pkg/internal/storage/kv"
)

type groupSettings struct {
	SpellCheck bool   `json:"spell_check"`
	Language   string `json:"language"`
	MaxButtons int    `json:"max_buttons"`
}

func newCache(t *testing.T) *cache.Cache {
	t.Helper()

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return cache.NewCache(store)
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	want := groupSettings{SpellCheck: true, Language: "en", MaxButtons: 10}

	if err := cache.Set(ctx, c, "grp-1001", want, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := cache.Get[groupSettings](ctx, c, "grp-1001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got != want {
		t.Fatalf("Get = %+v, want %+v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	c := newCache(t)

	if _, err := cache.Get[groupSettings](context.Background(), c, "absent"); err == nil {
		t.Fatal("Get on missing key succeeded, want error")
	}
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	calls := 0
	getter := func() (groupSettings, error) {
		calls++
		return groupSettings{Language: "fr"}, nil
	}

	first, err := cache.GetOrSet(ctx, c, "grp-2002", getter, time.Hour)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}

	second, err := cache.GetOrSet(ctx, c, "grp-2002", getter, time.Hour)
	if err != nil {
		t.Fatalf("GetOrSet (cached): %v", err)
	}

	if calls != 1 {
		t.Fatalf("getter called %d times, want 1", calls)
	}

	if first != second {
		t.Fatalf("cached value %+v differs from computed %+v", second, first)
	}
}

func TestGetOrSetGetterError(t *testing.T) {
	c := newCache(t)

	wantErr := errors.New("settings unavailable")

	_, err := cache.GetOrSet(context.Background(), c, "grp-3003", func() (groupSettings, error) {
		return groupSettings{}, wantErr
	}, time.Hour)
	if !errors.Is(err, wantErr) {
		t.Fatalf("GetOrSet error = %v, want %v", err, wantErr)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, c, key, groupSettings{}, 0); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if exists, _ := c.Exists(ctx, "a"); exists {
		t.Fatal("deleted key still exists")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	for _, key := range []string{"b", "c"} {
		if exists, _ := c.Exists(ctx, key); exists {
			t.Fatalf("key %q survived Clear", key)
		}
	}
}
