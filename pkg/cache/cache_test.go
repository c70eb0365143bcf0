package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreGetSetDel(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss on empty store, got %v", err)
	}
	if err := s.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}
	if err := s.Del(ctx, "k", "missing"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after del, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "k", "v", time.Minute)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss at expiry, got %v", err)
	}
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemoryStore().Set(ctx, "k", "v", 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRedisStorePrefix(t *testing.T) {
	if got := NewRedisStore(nil, "slotbook").prefix; got != "slotbook:" {
		t.Fatalf("expected slotbook:, got %q", got)
	}
	if got := NewRedisStore(nil, "  ").prefix; got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
}

func TestMemoryStoreIncrWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "rl", time.Minute)
		if err != nil || got != want {
			t.Fatalf("expected %d, got %d (%v)", want, got, err)
		}
	}

	now = now.Add(time.Minute)
	if got, _ := s.Incr(ctx, "rl", time.Minute); got != 1 {
		t.Fatalf("expected counter reset after window, got %d", got)
	}

	_ = s.Set(ctx, "text", "abc", 0)
	if _, err := s.Incr(ctx, "text", time.Minute); err == nil {
		t.Fatal("expected error incrementing a non-numeric value")
	}
}

func TestMemoryStoreSetNX(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	if ok, err := s.SetNX(ctx, "lock", "a", time.Second); !ok || err != nil {
		t.Fatalf("expected first SetNX to win, got %v %v", ok, err)
	}
	if ok, _ := s.SetNX(ctx, "lock", "b", time.Second); ok {
		t.Fatal("expected second SetNX to lose while the key is live")
	}
	if v, _ := s.Get(ctx, "lock"); v != "a" {
		t.Fatalf("expected original value kept, got %q", v)
	}

	now = now.Add(time.Second)
	if ok, _ := s.SetNX(ctx, "lock", "c", time.Second); !ok {
		t.Fatal("expected SetNX to win once the key expired")
	}
	_ = s.Del(ctx, "lock")
	if ok, _ := s.SetNX(ctx, "lock", "d", 0); !ok {
		t.Fatal("expected SetNX to win after delete")
	}
}
