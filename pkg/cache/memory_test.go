package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", ok, err)
	}

	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if !bytes.Equal(data, []byte("v")) {
		t.Errorf("Get() data = %q, want %q", data, "v")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "ttl", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, _ := m.Get(ctx, "ttl"); ok {
		t.Error("expired entry still returned")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("deleted entry still returned")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.Set(ctx, "k", []byte("old"), 0)
	_ = m.Set(ctx, "k", []byte("new"), 0)

	data, ok, _ := m.Get(ctx, "k")
	if !ok || !bytes.Equal(data, []byte("new")) {
		t.Errorf("Get() = %q, %v; want %q", data, ok, "new")
	}
}

func TestElementsKey(t *testing.T) {
	got := ElementsKey("dir", "battery")
	want := "chainviz:elements:dir:battery"
	if got != want {
		t.Errorf("ElementsKey() = %q, want %q", got, want)
	}
}
