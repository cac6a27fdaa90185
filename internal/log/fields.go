package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEntryID    = "entry_id"
	FieldEntryType  = "entry_type"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldKey        = "storage_key"
	FieldBackend    = "backend"
	FieldDropped    = "dropped_records"
	FieldEntries    = "entry_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentHTTP    = "http"
	ComponentEvents  = "events"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpRemove  = "remove"
	OpClear   = "clear"
	OpHydrate = "hydrate"
	OpPersist = "persist"
	OpPublish = "publish"
)
