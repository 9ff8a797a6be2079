package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_TTL(t *testing.T) {
	c := NewMemoryStore(10 * time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	key := "test:key"
	val := []byte("hello")

	if err := c.Set(ctx, key, val, 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit immediately after Set")
	}
	if string(got) != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}

	// Wait for TTL to expire
	time.Sleep(30 * time.Millisecond)

	_, hit, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestMemoryStore_ZeroTTLDeletes(t *testing.T) {
	c := NewMemoryStore(time.Minute)
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set with zero ttl failed: %v", err)
	}

	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit {
		t.Fatalf("expected zero ttl Set to delete the entry")
	}
}

func TestMemoryStore_ValueIsCopied(t *testing.T) {
	c := NewMemoryStore(time.Minute)
	defer c.Close()

	ctx := context.Background()
	buf := []byte("original")

	if err := c.Set(ctx, "k", buf, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	copy(buf, "clobber!")

	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get failed: hit=%v err=%v", hit, err)
	}
	if string(got) != "original" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
}
