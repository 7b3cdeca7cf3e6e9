package logging

// Standardized field names for structured logging.
const (
	FieldRunID      = "run_id"
	FieldExternalID = "external_id"
	FieldSender     = "sender"
	FieldSource     = "source"
	FieldOutcome    = "outcome"
	FieldMerchant   = "merchant"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldState      = "state"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldProcessed  = "processed"
	FieldTotal      = "total"
	FieldInserted   = "inserted"
	FieldDuplicates = "duplicates"
	FieldFailed     = "failed"
	FieldSince      = "since"
	FieldFile       = "file_path"
	FieldPattern    = "pattern"
	FieldStrategy   = "strategy"
)
