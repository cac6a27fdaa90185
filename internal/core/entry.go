package core

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// FallbackCategory labels entries whose category is empty after normalization.
const FallbackCategory = "Misc"

type (
	EntryType string

	// Entry is a single recorded income or expense event. Timestamp is the
	// effective date used for all aggregation; CreatedAt records insertion
	// time and is never touched by edits.
	Entry struct {
		ID        string    `json:"id"`
		Type      EntryType `json:"type"`
		Amount    float64   `json:"amount"`
		Category  string    `json:"category"`
		Note      string    `json:"note"`
		Timestamp time.Time `json:"timestamp"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// NewID returns a fresh unique entry identifier.
func NewID() string {
	return uuid.NewString()
}

// NormalizeCategory trims the label and collapses internal whitespace runs
// to single spaces. The result may be empty; callers decide the fallback.
func NormalizeCategory(label string) string {
	return strings.Join(strings.Fields(label), " ")
}

// CategoryOrFallback normalizes the label and substitutes FallbackCategory
// when nothing is left. Stored entries never carry an empty category.
func CategoryOrFallback(label string) string {
	if c := NormalizeCategory(label); c != "" {
		return c
	}
	return FallbackCategory
}

// SafeAmount coerces non-finite amounts to 0.
func SafeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the datetime forms the ledger accepts: RFC 3339
// with or without sub-second precision, datetime-local input values, and
// plain dates. Forms without a zone are interpreted in local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
