package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/pkg/db/models"
	"github.com/angelmondragon/studioops-backend/pkg/logger"
)

// Entry describes one mutating command for the audit trail.
type Entry struct {
	ActorID    *uuid.UUID
	ActorRole  string
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Detail     any
}

// Recorder persists audit entries. Implementations must be best effort; a
// failed write never propagates to the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type recorder struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewRecorder builds the default database-backed recorder.
func NewRecorder(db *gorm.DB, logg *logger.Logger) (Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("audit db required")
	}
	return &recorder{db: db, logg: logg}, nil
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	row := models.AuditLog{
		ID:         uuid.New(),
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
	}
	if entry.ActorRole != "" {
		role := entry.ActorRole
		row.ActorRole = &role
	}
	if entry.Detail != nil {
		detail, err := json.Marshal(entry.Detail)
		if err != nil {
			r.warn(ctx, "audit detail marshal failed")
		} else {
			row.Detail = detail
		}
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.warn(ctx, "audit write failed")
	}
}

func (r *recorder) warn(ctx context.Context, msg string) {
	if r.logg == nil {
		return
	}
	r.logg.Warn(ctx, msg)
}
