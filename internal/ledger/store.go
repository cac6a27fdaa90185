// Package ledger owns the in-memory ledger state: the entry collection
// and the category registry. All mutation goes through Store; readers get
// snapshots and derived views recomputed from the latest committed state.
package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/text/language"

	"monetraq/internal/core"
	"monetraq/internal/kv"
	"monetraq/internal/log"
)

// Storage keys for the two persisted blobs. The v1 suffix tracks the blob
// layout, not the application version.
const (
	EntriesKey    = "monetraq-ledger-v1"
	CategoriesKey = "monetraq-categories-v1"
)

// EventSink receives change notifications after a mutation commits.
// Implementations must not block; delivery is best-effort.
type EventSink interface {
	EntryAdded(ctx context.Context, e core.Entry)
	EntryUpdated(ctx context.Context, e core.Entry)
	EntryRemoved(ctx context.Context, id string)
	Cleared(ctx context.Context)
}

// AddPayload carries the caller-supplied fields of a new entry. ID and
// CreatedAt are assigned by the store.
type AddPayload struct {
	Type      core.EntryType
	Amount    float64
	Category  string
	Note      string
	Timestamp time.Time
}

// Patch is a partial update. Nil fields keep the entry's current value.
type Patch struct {
	Type      *core.EntryType
	Amount    *float64
	Category  *string
	Note      *string
	Timestamp *time.Time
}

// Store is the single mutator of the ledger state. Mutations are atomic
// with respect to readers, persist asynchronously after committing, and
// never fail: a persistence error is logged and the in-memory state stays
// authoritative for the session.
type Store struct {
	mu       sync.RWMutex
	entries  []core.Entry
	registry *Registry

	storage kv.Store
	events  EventSink
	logger  *log.Logger

	writes     sync.WaitGroup
	pending    map[string][]byte
	draining   map[string]bool
	dropped    int
	lastSynced time.Time

	now func() time.Time
}

// New creates a ledger store over the given blob storage. sink may be
// nil when no event feed is configured.
func New(storage kv.Store, sink EventSink, logger *log.Logger, locale language.Tag) *Store {
	if storage == nil {
		storage = kv.NewNoop()
	}
	return &Store{
		registry: NewRegistry(locale),
		storage:  storage,
		events:   sink,
		logger:   logger.WithComponent(log.ComponentLedger),
		pending:  make(map[string][]byte),
		draining: make(map[string]bool),
		now:      time.Now,
	}
}

// Add creates a new entry from the payload, prepends it to the collection
// and returns it. The category is normalized, registered and never left
// empty. A zero payload timestamp defaults to the current time.
func (s *Store) Add(ctx context.Context, p AddPayload) core.Entry {
	s.mu.Lock()
	now := s.now()
	entry := core.Entry{
		ID:        core.NewID(),
		Type:      p.Type,
		Amount:    core.SafeAmount(p.Amount),
		Category:  core.CategoryOrFallback(p.Category),
		Note:      p.Note,
		Timestamp: p.Timestamp,
		CreatedAt: now,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}
	s.entries = append([]core.Entry{entry}, s.entries...)
	categoriesChanged := s.registry.Register(entry.Category)
	s.persistLocked(categoriesChanged)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "entry added",
		log.FieldEntryID, entry.ID,
		log.FieldEntryType, string(entry.Type),
		log.FieldAmount, entry.Amount,
		log.FieldCategory, entry.Category)
	if s.events != nil {
		s.events.EntryAdded(ctx, entry)
	}
	return entry
}

// Update applies the patch to the entry with the given id. An unknown id
// is a silent no-op: deletion races with concurrent UI actions are
// tolerated. The category is re-normalized and re-registered after every
// patch.
func (s *Store) Update(ctx context.Context, id string, p Patch) (core.Entry, bool) {
	s.mu.Lock()
	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.Entry{}, false
	}

	entry := s.entries[idx]
	if p.Type != nil {
		entry.Type = *p.Type
	}
	if p.Amount != nil {
		entry.Amount = core.SafeAmount(*p.Amount)
	}
	if p.Category != nil {
		entry.Category = *p.Category
	}
	if p.Note != nil {
		entry.Note = *p.Note
	}
	if p.Timestamp != nil {
		entry.Timestamp = *p.Timestamp
	}
	entry.Category = core.CategoryOrFallback(entry.Category)
	s.entries[idx] = entry
	categoriesChanged := s.registry.Register(entry.Category)
	s.persistLocked(categoriesChanged)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "entry updated", log.FieldEntryID, id, log.FieldCategory, entry.Category)
	if s.events != nil {
		s.events.EntryUpdated(ctx, entry)
	}
	return entry, true
}

// Remove deletes the entry with the given id, a no-op when absent.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	if found {
		s.persistLocked(false)
	}
	s.mu.Unlock()

	if found {
		s.logger.InfoContext(ctx, "entry removed", log.FieldEntryID, id)
		if s.events != nil {
			s.events.EntryRemoved(ctx, id)
		}
	}
	return found
}

// Clear empties the entry collection. Registered categories survive.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.entries = nil
	s.persistLocked(false)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "ledger cleared")
	if s.events != nil {
		s.events.Cleared(ctx)
	}
}

// RegisterCategory adds a user-typed label to the registry without
// touching the entry collection.
func (s *Store) RegisterCategory(ctx context.Context, label string) {
	s.mu.Lock()
	changed := s.registry.Register(label)
	if changed {
		s.scheduleWriteLocked(CategoriesKey, s.marshalCategoriesLocked())
	}
	s.mu.Unlock()

	if changed {
		s.logger.InfoContext(ctx, "category registered", log.FieldCategory, core.NormalizeCategory(label))
	}
}

// Hydrate loads both persisted blobs, runs every candidate record through
// normalization, and reconciles the result with in-memory state. The
// collection is replaced only when the hydrated set is non-empty and
// differs from the current one, so a stale read of the same storage never
// clobbers in-flight edits. Loaded categories are merged, not replaced.
// Absent or corrupt blobs degrade to the current state; nothing fails.
func (s *Store) Hydrate(ctx context.Context) {
	raw, ok, err := s.storage.Load(ctx, EntriesKey)
	if err != nil {
		s.logger.WarnContext(ctx, "loading entries failed, treating as absent",
			log.FieldKey, EntriesKey, log.FieldError, err)
		ok = false
	}

	s.mu.Lock()
	replaced := false
	if ok {
		hydrated, dropped := core.NormalizeEntries(raw)
		s.dropped = dropped
		if len(hydrated) > 0 && !core.EqualEntries(s.entries, hydrated) {
			s.entries = hydrated
			replaced = true
			s.scheduleWriteLocked(EntriesKey, s.marshalEntriesLocked())
			s.lastSynced = s.now()
		}
	}
	s.mu.Unlock()

	rawCats, ok, err := s.storage.Load(ctx, CategoriesKey)
	if err != nil {
		s.logger.WarnContext(ctx, "loading categories failed, treating as absent",
			log.FieldKey, CategoriesKey, log.FieldError, err)
		ok = false
	}

	merged := false
	if ok {
		if labels := core.NormalizeCategories(rawCats); len(labels) > 0 {
			s.mu.Lock()
			merged = s.registry.Merge(labels)
			if merged {
				s.scheduleWriteLocked(CategoriesKey, s.marshalCategoriesLocked())
			}
			s.mu.Unlock()
		}
	}

	s.logger.InfoContext(ctx, "hydrated ledger",
		log.FieldEntries, len(s.Entries()),
		log.FieldDropped, s.DroppedRecords(),
		"replaced", replaced,
		"categories_merged", merged)
}

// Entries returns a snapshot of the collection in storage order.
func (s *Store) Entries() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Entry(nil), s.entries...)
}

// Sorted returns the chronological view, most recent first.
func (s *Store) Sorted() []core.Entry {
	return core.SortByTimestampDesc(s.Entries())
}

// Totals returns running totals over the full collection.
func (s *Store) Totals() core.Totals {
	return core.SumTotals(s.Entries())
}

// MonthlySummaries returns per-month figures, oldest month first.
func (s *Store) MonthlySummaries() []core.MonthSummary {
	return core.MonthlySummaries(s.Entries())
}

// GroupedByDay returns day buckets, most recent day first.
func (s *Store) GroupedByDay() []core.DayGroup {
	return core.GroupByDay(s.Entries())
}

// Categories returns every category available for classification.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Available(s.entries)
}

// DroppedRecords reports how many persisted records the last hydration
// discarded as malformed. Diagnostic only.
func (s *Store) DroppedRecords() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

// LastSyncedAt reports when state last changed hands with storage.
func (s *Store) LastSyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSynced
}

// Flush waits for in-flight persistence writes. Called at shutdown.
func (s *Store) Flush() {
	s.writes.Wait()
}

// persistLocked schedules the write-back that follows every mutation.
// Callers hold the write lock.
func (s *Store) persistLocked(categoriesChanged bool) {
	s.scheduleWriteLocked(EntriesKey, s.marshalEntriesLocked())
	if categoriesChanged {
		s.scheduleWriteLocked(CategoriesKey, s.marshalCategoriesLocked())
	}
	s.lastSynced = s.now()
}

func (s *Store) marshalEntriesLocked() []byte {
	data, err := json.Marshal(s.entries)
	if err != nil {
		s.logger.Error("marshal entries failed", log.FieldError, err)
		return nil
	}
	return data
}

func (s *Store) marshalCategoriesLocked() []byte {
	data, err := json.Marshal(s.registry.User())
	if err != nil {
		s.logger.Error("marshal categories failed", log.FieldError, err)
		return nil
	}
	return data
}

// scheduleWriteLocked records the blob as the pending snapshot for key
// and ensures a drainer goroutine is running for it. The mutation caller
// never waits on storage, and a failed write is logged, not retried.
// Only the newest pending snapshot per key is ever written, and one
// drainer runs per key at a time, so a stale snapshot cannot land after
// a newer one: last write wins on each key.
func (s *Store) scheduleWriteLocked(key string, data []byte) {
	if data == nil {
		return
	}
	s.pending[key] = data
	if s.draining[key] {
		return
	}
	s.draining[key] = true
	s.writes.Add(1)
	go s.drainWrites(key)
}

// drainWrites persists pending snapshots for key until none is left.
// The exit check and the drainer flag share the store lock with
// scheduleWriteLocked, so a snapshot queued while the drainer is
// deciding to exit is never stranded.
func (s *Store) drainWrites(key string) {
	defer s.writes.Done()
	for {
		s.mu.Lock()
		data, ok := s.pending[key]
		if !ok {
			delete(s.draining, key)
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.storage.Save(ctx, key, data)
		cancel()
		if err != nil {
			s.logger.Warn("persist failed, state kept in memory",
				log.FieldKey, key, log.FieldOperation, log.OpPersist, log.FieldError, err)
		}
	}
}
