package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/pkg/db/models"
)

const auditDDL = `
CREATE TABLE audit_logs (
    id TEXT PRIMARY KEY,
    actor_id TEXT,
    actor_role TEXT,
    action TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id TEXT,
    detail TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(auditDDL).Error)
	return conn
}

func TestRecordPersistsEntry(t *testing.T) {
	conn := newAuditDB(t)
	rec, err := NewRecorder(conn, nil)
	require.NoError(t, err)

	actorID := uuid.New()
	entityID := uuid.New()
	rec.Record(context.Background(), Entry{
		ActorID:    &actorID,
		ActorRole:  "ADMIN",
		Action:     "deployment.create",
		EntityType: "equipment_assignment",
		EntityID:   &entityID,
		Detail:     map[string]string{"equipment_id": uuid.NewString()},
	})

	var rows []models.AuditLog
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, "deployment.create", rows[0].Action)
	require.Equal(t, "equipment_assignment", rows[0].EntityType)
	require.NotNil(t, rows[0].ActorRole)
	require.Equal(t, "ADMIN", *rows[0].ActorRole)
	require.NotEmpty(t, rows[0].Detail)
}

func TestRecordSwallowsWriteFailure(t *testing.T) {
	conn := newAuditDB(t)
	require.NoError(t, conn.Exec("DROP TABLE audit_logs").Error)

	rec, err := NewRecorder(conn, nil)
	require.NoError(t, err)

	// must not panic or propagate the missing-table error
	rec.Record(context.Background(), Entry{
		Action:     "deployment.return",
		EntityType: "equipment_assignment",
	})
}

func TestNewRecorderRequiresDB(t *testing.T) {
	if _, err := NewRecorder(nil, nil); err == nil {
		t.Fatal("expected nil db to be rejected")
	}
}
