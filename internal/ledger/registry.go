package ledger

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"monetraq/internal/core"
)

// DefaultCategories seeds every fresh ledger. User-typed labels extend
// the list; nothing ever removes these.
var DefaultCategories = []string{
	"Salary",
	"Savings",
	"Rent",
	"Groceries",
	"Dining",
	"Transport",
	"Utilities",
	"Healthcare",
	"Subscriptions",
	"Lifestyle",
	"Gifts",
	"Education",
}

// Registry maintains the deduplicated set of category labels. Ordering is
// locale-aware so the list reads naturally in the user's language. The
// registry is not safe for concurrent use; the owning Store serializes
// access.
type Registry struct {
	user     []string
	collator *collate.Collator
}

func NewRegistry(tag language.Tag) *Registry {
	return &Registry{
		user:     append([]string(nil), DefaultCategories...),
		collator: collate.New(tag),
	}
}

// Register normalizes the label and inserts it into the user list. It is
// a no-op when the label is empty after normalization or already present.
// Reports whether the list changed.
func (r *Registry) Register(label string) bool {
	label = core.NormalizeCategory(label)
	if label == "" || slices.Contains(r.user, label) {
		return false
	}
	r.user = append(r.user, label)
	r.collator.SortStrings(r.user)
	return true
}

// Merge unions the user list with externally loaded labels, used when
// reconciling freshly hydrated categories with in-memory state. Reports
// whether the list changed.
func (r *Registry) Merge(labels []string) bool {
	merged := append([]string(nil), r.user...)
	for _, label := range labels {
		label = core.NormalizeCategory(label)
		if label == "" || slices.Contains(merged, label) {
			continue
		}
		merged = append(merged, label)
	}
	if len(merged) == len(r.user) {
		return false
	}
	r.collator.SortStrings(merged)
	r.user = merged
	return true
}

// User returns a copy of the user-registered list.
func (r *Registry) User() []string {
	return append([]string(nil), r.user...)
}

// Available returns the union of the default list, the user list and
// every category on a live entry, deduplicated and sorted. The UI always
// offers every category ever used, even ones no longer in the user list.
func (r *Registry) Available(entries []core.Entry) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(DefaultCategories)+len(r.user))
	add := func(label string) {
		label = core.NormalizeCategory(label)
		if label == "" {
			return
		}
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	for _, label := range DefaultCategories {
		add(label)
	}
	for _, label := range r.user {
		add(label)
	}
	for _, e := range entries {
		add(e.Category)
	}
	r.collator.SortStrings(out)
	return out
}
