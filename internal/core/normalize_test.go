package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeEntriesDropsMalformed(t *testing.T) {
	blob := []byte(`[
		{"id":"a","type":"income","amount":1000,"category":"Salary","timestamp":"2024-01-15T09:00:00Z","createdAt":"2024-01-15T09:00:00Z"},
		{"id":"b","type":"expense","amount":300,"category":"Groceries"},
		{"id":"c","amount":50,"timestamp":"2024-01-16T09:00:00Z"},
		{"id":"d","type":"expense","timestamp":"2024-01-17T09:00:00Z"},
		{"id":"e","type":"expense","amount":10,"timestamp":"never"},
		"not an object",
		null,
		42
	]`)
	entries, dropped := NormalizeEntries(blob)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if dropped != 7 {
		t.Fatalf("expected 7 dropped, got %d", dropped)
	}
	if entries[0].ID != "a" || entries[0].Type != Income || entries[0].Amount != 1000 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestNormalizeEntriesDefaults(t *testing.T) {
	blob := []byte(`[{"type":"expense","amount":25,"timestamp":"2024-03-01T12:00:00Z"}]`)
	entries, dropped := NormalizeEntries(blob)
	if dropped != 0 || len(entries) != 1 {
		t.Fatalf("unexpected result: entries=%d dropped=%d", len(entries), dropped)
	}
	e := entries[0]
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.Category != FallbackCategory {
		t.Errorf("expected fallback category, got %q", e.Category)
	}
	if !e.CreatedAt.Equal(e.Timestamp) {
		t.Errorf("expected createdAt to default to timestamp, got %v", e.CreatedAt)
	}
	if e.Note != "" {
		t.Errorf("expected empty note, got %q", e.Note)
	}
}

func TestNormalizeEntriesWhitespaceCategory(t *testing.T) {
	blob := []byte(`[{"type":"expense","amount":25,"category":"  Dining   Out ","timestamp":"2024-03-01T12:00:00Z"}]`)
	entries, _ := NormalizeEntries(blob)
	if len(entries) != 1 || entries[0].Category != "Dining Out" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestNormalizeEntriesCorruptBlob(t *testing.T) {
	for _, blob := range []string{"", "not json", `{"an":"object"}`, "42"} {
		entries, dropped := NormalizeEntries([]byte(blob))
		if len(entries) != 0 || dropped != 0 {
			t.Errorf("blob %q: expected empty result, got entries=%d dropped=%d", blob, len(entries), dropped)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	original := []Entry{
		{
			ID:        NewID(),
			Type:      Income,
			Amount:    1234.56,
			Category:  "Salary",
			Note:      "January payday",
			Timestamp: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC),
		},
		{
			ID:        NewID(),
			Type:      Expense,
			Amount:    42.1,
			Category:  "Dining Out",
			Timestamp: time.Date(2024, 2, 2, 20, 30, 0, 0, time.UTC),
			CreatedAt: time.Date(2024, 2, 2, 20, 30, 0, 0, time.UTC),
		},
	}
	blob, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, dropped := NormalizeEntries(blob)
	if dropped != 0 {
		t.Fatalf("expected no drops, got %d", dropped)
	}
	if !EqualEntries(original, decoded) {
		t.Fatalf("round trip mismatch:\n  in:  %+v\n  out: %+v", original, decoded)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	blob := []byte(`[
		{"type":"income","amount":10,"category":" A  B ","timestamp":"2024-01-01"},
		{"type":"expense","amount":5,"timestamp":"2024-01-02T08:00"}
	]`)
	first, _ := NormalizeEntries(blob)
	again, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, dropped := NormalizeEntries(again)
	if dropped != 0 {
		t.Fatalf("expected no drops on renormalization, got %d", dropped)
	}
	if !EqualEntries(first, second) {
		t.Fatalf("normalization not idempotent:\n  first:  %+v\n  second: %+v", first, second)
	}
}

func TestNormalizeCategories(t *testing.T) {
	labels := NormalizeCategories([]byte(`["Groceries"," Dining   Out ","","  "]`))
	if len(labels) != 2 || labels[0] != "Groceries" || labels[1] != "Dining Out" {
		t.Fatalf("unexpected labels: %v", labels)
	}
	if got := NormalizeCategories([]byte("corrupt")); got != nil {
		t.Fatalf("expected nil for corrupt blob, got %v", got)
	}
}
