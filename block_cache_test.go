package sbar

import "testing"

func TestBlockCacheGetReusesByID(t *testing.T) {
	c := NewBlockCache(&BuildContext{})
	w := &WireBlock{ID: 7, Type: BlockSpacer}

	b1, err := c.Get(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b1.RefCount() != 1 {
		t.Fatalf("refcount = %d, want 1", b1.RefCount())
	}

	b2, err := c.Get(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b1 != b2 {
		t.Fatalf("expected same block instance on cache hit")
	}
	if b2.RefCount() != 2 {
		t.Fatalf("refcount after second get = %d, want 2", b2.RefCount())
	}
}

func TestBlockCacheReleaseForgetsAtZero(t *testing.T) {
	c := NewBlockCache(&BuildContext{})
	w := &WireBlock{ID: 3, Type: BlockSpacer}

	b, err := c.Get(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Lookup(3); !ok {
		t.Fatalf("expected id 3 registered after Get")
	}
	b.Release()
	if _, ok := c.Lookup(3); ok {
		t.Fatalf("expected id 3 forgotten after refcount hits zero")
	}
}

func TestBlockCacheAnonymousBlocksNotRegistered(t *testing.T) {
	c := NewBlockCache(&BuildContext{})
	w := &WireBlock{Type: BlockSpacer}

	b1, err := c.Get(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b2, err := c.Get(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b1 == b2 {
		t.Fatalf("expected distinct blocks for anonymous (id=0) wire blocks")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty id-index for anonymous blocks, got %d entries", c.Len())
	}
}
