package events

import (
	"encoding/json"
	"time"

	"monetraq/internal/core"
)

// Actions carried by change messages.
const (
	ActionEntryAdded   = "entry.added"
	ActionEntryUpdated = "entry.updated"
	ActionEntryRemoved = "entry.removed"
	ActionCleared      = "ledger.cleared"
)

// ChangeMessage notifies downstream consumers of one committed ledger
// mutation. Entry is present for added/updated, EntryID for removed.
type ChangeMessage struct {
	Action    string      `json:"action"`
	EntryID   string      `json:"entryId,omitempty"`
	Entry     *core.Entry `json:"entry,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func newEntryMessage(action string, e core.Entry) ChangeMessage {
	return ChangeMessage{
		Action:    action,
		EntryID:   e.ID,
		Entry:     &e,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ChangeMessage{}, err
	}
	return msg, nil
}
