package log

// Shared field names so log lines stay greppable across components.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldError      = "error"
	FieldBackend    = "backend"
	FieldUserID     = "user_id"
	FieldMovementID = "movement_id"
	FieldOperation  = "operation"
)
