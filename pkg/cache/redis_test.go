package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: srv.Addr()})
	r := NewRedisFromClient(client)
	t.Cleanup(func() { _ = r.Close() })
	return r, srv
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)

	if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", ok, err)
	}

	if err := r.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := r.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if !bytes.Equal(data, []byte("v")) {
		t.Errorf("Get() data = %q, want %q", data, "v")
	}
}

func TestRedisExpiry(t *testing.T) {
	ctx := context.Background()
	r, srv := newTestRedis(t)

	if err := r.Set(ctx, "ttl", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	srv.FastForward(2 * time.Minute)

	if _, ok, _ := r.Get(ctx, "ttl"); ok {
		t.Error("expired entry still returned")
	}
}

func TestRedisDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)

	if err := r.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := r.Get(ctx, "k"); ok {
		t.Error("deleted entry still returned")
	}
}

func TestNewRedisConnectError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := NewRedis(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("NewRedis() error = nil, want connection failure")
	}
}
