package cache

import "testing"

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](2)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("unexpected get: %v %v", v, ok)
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU[int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a; b becomes the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a retained")
	}
	if c.Size() != 2 {
		t.Fatalf("unexpected size %d", c.Size())
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string](2)
	c.Set("k", "first")
	c.Set("k", "second")
	if v, _ := c.Get("k"); v != "second" {
		t.Fatalf("expected overwrite, got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("unexpected size %d", c.Size())
	}
}
