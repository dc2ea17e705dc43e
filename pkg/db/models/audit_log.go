package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a mutating command. Writes are best
// effort; a failed insert never fails the command that produced it.
type AuditLog struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID    *uuid.UUID      `gorm:"column:actor_id;type:uuid"`
	ActorRole  *string         `gorm:"column:actor_role"`
	Action     string          `gorm:"column:action;not null"`
	EntityType string          `gorm:"column:entity_type;not null"`
	EntityID   *uuid.UUID      `gorm:"column:entity_id;type:uuid"`
	Detail     json.RawMessage `gorm:"column:detail;type:jsonb"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's pluralization.
func (AuditLog) TableName() string {
	return "audit_logs"
}
