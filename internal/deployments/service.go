package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/internal/audit"
	dbpkg "github.com/angelmondragon/studioops-backend/pkg/db"
	"github.com/angelmondragon/studioops-backend/pkg/db/models"
	"github.com/angelmondragon/studioops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/studioops-backend/pkg/errors"
	"github.com/angelmondragon/studioops-backend/pkg/logger"
	"github.com/angelmondragon/studioops-backend/pkg/outbox"
	"github.com/angelmondragon/studioops-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/studioops-backend/pkg/pagination"
	redispkg "github.com/angelmondragon/studioops-backend/pkg/redis"
)

const (
	openAssignmentIndex = "ux_equipment_assignments_open"
	boardCacheTTL       = 30 * time.Second
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type lifecycleMetrics interface {
	IncCreated()
	IncReturned()
	IncConflict()
}

// Service defines deployment-level operations beyond repository reads.
type Service interface {
	CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*AssignmentView, error)
	QuickReturn(ctx context.Context, input QuickReturnInput) (*AssignmentView, error)
	ActiveDeployments(ctx context.Context) (*DeploymentBoard, error)
	FormData(ctx context.Context) (*FormData, error)
	EquipmentHistory(ctx context.Context, equipmentID uuid.UUID, params pagination.Params) (*EquipmentHistory, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	cache   redispkg.ViewCache
	metrics lifecycleMetrics
	audit   audit.Recorder
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a deployments service with the required dependencies.
// Cache, metrics and audit are optional; the lifecycle works without them.
func NewService(
	repo Repository,
	tx txRunner,
	outboxSvc outboxPublisher,
	cache redispkg.ViewCache,
	lifecycle lifecycleMetrics,
	auditRec audit.Recorder,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deployments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outboxSvc,
		cache:   cache,
		metrics: lifecycle,
		audit:   auditRec,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*AssignmentView, error) {
	if input.EquipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	if input.EmployeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	assignedAt := s.now()
	if input.AssignedAt != nil {
		assignedAt = *input.AssignedAt
	}
	if input.ExpectedReturn != nil && input.ExpectedReturn.Before(assignedAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected return must be after the assignment start")
	}

	row := &models.EquipmentAssignment{
		ID:             uuid.New(),
		EquipmentID:    input.EquipmentID,
		EmployeeID:     input.EmployeeID,
		ClientID:       input.ClientID,
		AssignedBy:     input.ActorUserID,
		Status:         enums.AssignmentStatusInField,
		AssignedAt:     assignedAt,
		ExpectedReturn: input.ExpectedReturn,
		Location:       input.Location,
		Notes:          input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateAssignment(ctx, row); err != nil {
			// the insert only touches the open-assignment index, so any
			// unique violation here means the equipment is already out
			if dbpkg.IsUniqueViolation(err, openAssignmentIndex) || dbpkg.IsUniqueViolation(err, "") {
				if s.metrics != nil {
					s.metrics.IncConflict()
				}
				return pkgerrors.New(pkgerrors.CodeConflict, "This equipment already has an active assignment")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventDeploymentCreated,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   row.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorRole),
			Data: payloads.DeploymentCreatedEvent{
				AssignmentID:   row.ID,
				EquipmentID:    row.EquipmentID,
				EmployeeID:     row.EmployeeID,
				ClientID:       row.ClientID,
				AssignedAt:     row.AssignedAt,
				ExpectedReturn: row.ExpectedReturn,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, audit.Entry{
		ActorID:    &input.ActorUserID,
		ActorRole:  input.ActorRole,
		Action:     "deployment.create",
		EntityType: "equipment_assignment",
		EntityID:   &row.ID,
		Detail: map[string]string{
			"equipment_id": row.EquipmentID.String(),
			"employee_id":  row.EmployeeID.String(),
		},
	})
	if s.metrics != nil {
		s.metrics.IncCreated()
	}

	return s.loadView(ctx, row)
}

func (s *service) QuickReturn(ctx context.Context, input QuickReturnInput) (*AssignmentView, error) {
	if input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	returnedAt := s.now()
	var closed *models.EquipmentAssignment

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.CloseAssignment(ctx, input.AssignmentID, input.Notes, returnedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close assignment")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Assignment not found or already returned")
		}

		closed, err = repo.FindAssignment(ctx, input.AssignmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload assignment")
		}

		notes := ""
		if closed.Notes != nil {
			notes = *closed.Notes
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventDeploymentReturned,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   closed.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorRole),
			Data: payloads.DeploymentReturnedEvent{
				AssignmentID: closed.ID,
				EquipmentID:  closed.EquipmentID,
				EmployeeID:   closed.EmployeeID,
				ReturnedAt:   returnedAt,
				Status:       enums.AssignmentStatusReturned.String(),
				Notes:        notes,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, audit.Entry{
		ActorID:    &input.ActorUserID,
		ActorRole:  input.ActorRole,
		Action:     "deployment.return",
		EntityType: "equipment_assignment",
		EntityID:   &input.AssignmentID,
		Detail:     map[string]string{"status": enums.AssignmentStatusReturned.String()},
	})
	if s.metrics != nil {
		s.metrics.IncReturned()
	}

	view := buildAssignmentView(*closed, s.now())
	return &view, nil
}

func (s *service) ActiveDeployments(ctx context.Context) (*DeploymentBoard, error) {
	if s.cache != nil {
		if payload, err := s.cache.GetView(ctx, redispkg.DeploymentsView); err == nil {
			var board DeploymentBoard
			if jsonErr := json.Unmarshal([]byte(payload), &board); jsonErr == nil {
				return &board, nil
			}
		}
	}

	rows, err := s.repo.ListOpenAssignments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open assignments")
	}
	board := buildBoard(rows, s.now())

	if s.cache != nil {
		if payload, err := json.Marshal(board); err == nil {
			if cacheErr := s.cache.StoreView(ctx, redispkg.DeploymentsView, string(payload), boardCacheTTL); cacheErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "deployments view cache write failed")
			}
		}
	}
	return board, nil
}

func (s *service) FormData(ctx context.Context) (*FormData, error) {
	equipment, err := s.repo.ListDeployableEquipment(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deployable equipment")
	}
	profiles, err := s.repo.ListActiveProfiles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active profiles")
	}
	clients, err := s.repo.ListActiveClients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active clients")
	}

	form := &FormData{
		Equipment: make([]EquipmentOption, 0, len(equipment)),
		Employees: make([]EmployeeOption, 0, len(profiles)),
		Clients:   make([]ClientOption, 0, len(clients)),
	}
	for _, item := range equipment {
		option := EquipmentOption{
			ID:           item.ID,
			Name:         item.Name,
			SerialNumber: item.SerialNumber,
			Status:       item.Status,
			DailyRate:    item.DailyRate,
		}
		if item.Category != nil {
			category := item.Category.Name
			option.Category = &category
		}
		form.Equipment = append(form.Equipment, option)
	}
	for _, profile := range profiles {
		form.Employees = append(form.Employees, EmployeeOption{
			ID:       profile.ID,
			FullName: profile.FullName,
		})
	}
	for _, client := range clients {
		form.Clients = append(form.Clients, ClientOption{
			ID:   client.ID,
			Name: client.Name,
		})
	}
	return form, nil
}

func (s *service) EquipmentHistory(ctx context.Context, equipmentID uuid.UUID, params pagination.Params) (*EquipmentHistory, error) {
	if equipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListEquipmentHistory(ctx, equipmentID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment history")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	history := &EquipmentHistory{Entries: make([]HistoryEntry, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		history.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			AssignedAt: last.AssignedAt,
			ID:         last.ID,
		})
		rows = rows[:limit]
	}

	for _, row := range rows {
		entry := HistoryEntry{
			ID:         row.ID,
			Employee:   EmployeeRef{ID: row.EmployeeID},
			Status:     row.Status,
			AssignedAt: row.AssignedAt,
			ReturnedAt: row.ReturnedAt,
			Location:   row.Location,
			Notes:      row.Notes,
		}
		if row.Employee != nil {
			entry.Employee.FullName = row.Employee.FullName
		}
		if row.Client != nil {
			entry.Client = &ClientSummary{
				ID:          row.Client.ID,
				Name:        row.Client.Name,
				CompanyName: row.Client.CompanyName,
			}
		}
		history.Entries = append(history.Entries, entry)
	}
	return history, nil
}

// afterMutation runs the post-commit side effects. All of them are best
// effort; the committed write is already durable.
func (s *service) afterMutation(ctx context.Context, entry audit.Entry) {
	if s.cache != nil {
		if err := s.cache.InvalidateViews(ctx, redispkg.DeploymentsView); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "deployments view invalidation failed")
		}
	}
	if s.audit != nil {
		s.audit.Record(ctx, entry)
	}
}

func (s *service) loadView(ctx context.Context, row *models.EquipmentAssignment) (*AssignmentView, error) {
	loaded, err := s.repo.FindAssignment(ctx, row.ID)
	if err != nil {
		// the write committed; fall back to the sparse row
		view := buildAssignmentView(*row, s.now())
		return &view, nil
	}
	view := buildAssignmentView(*loaded, s.now())
	return &view, nil
}

func buildActor(userID uuid.UUID, role string) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: userID,
		Role:   role,
	}
}
