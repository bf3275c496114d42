package entity

import (
	"time"
)

// Audit action tags for security-relevant events.
const (
	AuditUserLogin          = "user_login"
	AuditUserLogout         = "user_logout"
	AuditRoleChanged        = "role_changed"
	AuditUserCreatedByAdmin = "user_created_by_admin"
)

// Generic row-level actions used for clinical tables.
const (
	AuditCreated = "created"
	AuditUpdated = "updated"
	AuditDeleted = "deleted"
)

// AuditEntry is an append-only record of a security-relevant action. Entries
// are never updated or deleted by application code; the actor is always taken
// from the caller's session, never from request input.
type AuditEntry struct {
	ID        string                 `json:"id"`
	Action    string                 `json:"action"`
	TableName string                 `json:"table_name"`
	RecordID  string                 `json:"record_id"`
	ActorID   string                 `json:"actor_id"`
	OldValues map[string]interface{} `json:"old_values,omitempty"`
	NewValues map[string]interface{} `json:"new_values,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
