package core

import (
	"encoding/json"
)

// rawRecord mirrors one persisted entry with presence tracked through
// pointers, so records missing required fields can be told apart from
// records carrying zero values.
type rawRecord struct {
	ID        *string  `json:"id"`
	Type      *string  `json:"type"`
	Amount    *float64 `json:"amount"`
	Category  *string  `json:"category"`
	Note      *string  `json:"note"`
	Timestamp *string  `json:"timestamp"`
	CreatedAt *string  `json:"createdAt"`
}

// NormalizeEntries decodes a persisted entries blob and keeps the subset
// that forms valid entries. Malformed records are dropped, never surfaced:
// persisted data may accumulate partial corruption across versions, and
// the remaining valid data stays available. The dropped count is returned
// for diagnostics only.
//
// A blob that is not a JSON array at all degrades to an empty collection.
func NormalizeEntries(raw []byte) (entries []Entry, dropped int) {
	if len(raw) == 0 {
		return nil, 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0
	}
	for _, item := range items {
		e, ok := normalizeRecord(item)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}

// normalizeRecord validates and coerces one raw candidate. A record is
// accepted only when it is a structured object with a type, a numeric
// amount and a parseable timestamp. On acceptance the missing optional
// fields are defaulted: id gets a fresh identifier, createdAt falls back
// to the canonical timestamp, an empty category becomes FallbackCategory.
func normalizeRecord(raw json.RawMessage) (Entry, bool) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Entry{}, false
	}
	if rec.Type == nil || *rec.Type == "" || rec.Amount == nil || rec.Timestamp == nil {
		return Entry{}, false
	}
	ts, err := ParseTimestamp(*rec.Timestamp)
	if err != nil {
		return Entry{}, false
	}

	e := Entry{
		Type:      EntryType(*rec.Type),
		Amount:    SafeAmount(*rec.Amount),
		Timestamp: ts,
		CreatedAt: ts,
	}
	if rec.ID != nil && *rec.ID != "" {
		e.ID = *rec.ID
	} else {
		e.ID = NewID()
	}
	category := ""
	if rec.Category != nil {
		category = *rec.Category
	}
	e.Category = CategoryOrFallback(category)
	if rec.Note != nil {
		e.Note = *rec.Note
	}
	if rec.CreatedAt != nil {
		if created, err := ParseTimestamp(*rec.CreatedAt); err == nil {
			e.CreatedAt = created
		}
	}
	return e, true
}

// NormalizeCategories decodes a persisted categories blob into normalized,
// non-empty labels. Anything unreadable degrades to an empty list.
func NormalizeCategories(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil
	}
	out := labels[:0]
	for _, label := range labels {
		if c := NormalizeCategory(label); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// EqualEntries reports whether two collections carry the same entries in
// the same order, compared through their canonical serialized form. Used
// by hydration to avoid clobbering in-memory state with an identical read
// of the same storage.
func EqualEntries(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].Type != b[i].Type ||
			a[i].Amount != b[i].Amount ||
			a[i].Category != b[i].Category ||
			a[i].Note != b[i].Note ||
			!a[i].Timestamp.Equal(b[i].Timestamp) ||
			!a[i].CreatedAt.Equal(b[i].CreatedAt) {
			return false
		}
	}
	return true
}
