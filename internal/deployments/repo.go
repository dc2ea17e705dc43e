package deployments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/pkg/db/models"
	"github.com/angelmondragon/studioops-backend/pkg/enums"
	"github.com/angelmondragon/studioops-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a deployments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.EquipmentAssignment) (*models.EquipmentAssignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.EquipmentAssignment, error) {
	var assignment models.EquipmentAssignment
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("Employee").
		Preload("Client").
		Where("id = ?", assignmentID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CloseAssignment stamps the return on an open row. The returned_at IS NULL
// guard makes the operation terminal; a second return matches zero rows. The
// close always lands on status=returned, the only transition this write path
// drives.
func (r *repository) CloseAssignment(ctx context.Context, assignmentID uuid.UUID, notes *string, returnedAt time.Time) (int64, error) {
	updates := map[string]any{
		"returned_at": returnedAt,
		"status":      enums.AssignmentStatusReturned,
		"updated_at":  returnedAt,
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	res := r.db.WithContext(ctx).
		Model(&models.EquipmentAssignment{}).
		Where("id = ? AND returned_at IS NULL", assignmentID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) ListOpenAssignments(ctx context.Context) ([]models.EquipmentAssignment, error) {
	var rows []models.EquipmentAssignment
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("Equipment.Category").
		Preload("Employee").
		Preload("Client").
		Where("returned_at IS NULL").
		Order("assigned_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListDeployableEquipment(ctx context.Context) ([]models.Equipment, error) {
	var rows []models.Equipment
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("deleted_at IS NULL").
		Where("status = ?", enums.EquipmentStatusAvailable).
		Where("NOT EXISTS (SELECT 1 FROM equipment_assignments a WHERE a.equipment_id = equipment.id AND a.returned_at IS NULL)").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListActiveProfiles(ctx context.Context) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("role IN ?", []enums.ActorRole{
			enums.ActorRoleEmployee,
			enums.ActorRoleAdmin,
			enums.ActorRoleSuperAdmin,
		}).
		Order("full_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListActiveClients(ctx context.Context) ([]models.Client, error) {
	var rows []models.Client
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListEquipmentHistory(ctx context.Context, equipmentID uuid.UUID, params pagination.Params) ([]models.EquipmentAssignment, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Client").
		Where("equipment_id = ?", equipmentID)
	if cursor != nil {
		q = q.Where(
			"assigned_at < ? OR (assigned_at = ? AND id < ?)",
			cursor.AssignedAt, cursor.AssignedAt, cursor.ID,
		)
	}

	var rows []models.EquipmentAssignment
	err = q.Order("assigned_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
