package memory

import (
	"bytes"
	"context"
	"testing"
)

func TestLoadAbsent(t *testing.T) {
	s := New()
	value, ok, err := s.Load(context.Background(), "missing")
	if err != nil || ok || value != nil {
		t.Fatalf("expected absence, got value=%v ok=%v err=%v", value, ok, err)
	}
}

func TestSaveLoad(t *testing.T) {
	s := New()
	if err := s.Save(context.Background(), "k", []byte(`[1,2]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	value, ok, err := s.Load(context.Background(), "k")
	if err != nil || !ok || !bytes.Equal(value, []byte(`[1,2]`)) {
		t.Fatalf("unexpected load: value=%q ok=%v err=%v", value, ok, err)
	}

	// Last write wins.
	if err := s.Save(context.Background(), "k", []byte(`[3]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	value, _, _ = s.Load(context.Background(), "k")
	if !bytes.Equal(value, []byte(`[3]`)) {
		t.Fatalf("expected overwrite, got %q", value)
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	s := New()
	s.Seed("k", []byte("abc"))
	value, _, _ := s.Load(context.Background(), "k")
	value[0] = 'x'
	again, _, _ := s.Load(context.Background(), "k")
	if !bytes.Equal(again, []byte("abc")) {
		t.Fatalf("internal state mutated: %q", again)
	}
}
