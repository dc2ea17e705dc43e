package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/pkg/enums"
	"github.com/angelmondragon/studioops-backend/pkg/outbox/payloads"
)

const outboxDDL = `
CREATE TABLE outbox_events (
    id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(6)))),
    event_type TEXT NOT NULL,
    aggregate_type TEXT NOT NULL,
    aggregate_id TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    published_at DATETIME,
    attempt_count INTEGER NOT NULL DEFAULT 0,
    last_error TEXT
);
`

func newOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(outboxDDL).Error)
	return conn
}

func TestEmitStoresEnvelopeAndLifecycle(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	assignmentID := uuid.New()
	equipmentID := uuid.New()
	actor := &ActorRef{UserID: uuid.New(), Role: "ADMIN"}

	err := svc.Emit(context.Background(), conn, DomainEvent{
		EventType:     enums.EventDeploymentCreated,
		AggregateType: enums.AggregateAssignment,
		AggregateID:   assignmentID,
		Actor:         actor,
		Version:       1,
		Data: payloads.DeploymentCreatedEvent{
			AssignmentID: assignmentID,
			EquipmentID:  equipmentID,
		},
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, enums.EventDeploymentCreated, rows[0].EventType)
	require.Equal(t, assignmentID, rows[0].AggregateID)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	require.Equal(t, 1, envelope.Version)
	require.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	require.Equal(t, actor.UserID, envelope.Actor.UserID)

	var data payloads.DeploymentCreatedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	require.Equal(t, equipmentID, data.EquipmentID)

	require.NoError(t, repo.MarkPublished(rows[0].ID))
	remaining, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestMarkFailedIncrementsAttempts(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	err := svc.Emit(context.Background(), conn, DomainEvent{
		EventType:     enums.EventDeploymentReturned,
		AggregateType: enums.AggregateAssignment,
		AggregateID:   uuid.New(),
		Version:       1,
		Data:          payloads.DeploymentReturnedEvent{},
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.MarkFailed(rows[0].ID, errors.New("publish timeout")))

	rows, err = repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].AttemptCount)
	require.NotNil(t, rows[0].LastError)
	require.Equal(t, "publish timeout", *rows[0].LastError)
}

func TestFetchUnpublishedSkipsExhaustedEvents(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	err := svc.Emit(context.Background(), conn, DomainEvent{
		EventType:     enums.EventDeploymentCreated,
		AggregateType: enums.AggregateAssignment,
		AggregateID:   uuid.New(),
		Version:       1,
		Data:          payloads.DeploymentCreatedEvent{},
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.MarkFailed(rows[0].ID, errors.New("topic missing")))
	require.NoError(t, repo.MarkFailed(rows[0].ID, errors.New("topic missing")))

	rows, err = repo.FetchUnpublished(10, 2)
	require.NoError(t, err)
	require.Empty(t, rows)

	// without a cap the event is still offered
	rows, err = repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}
