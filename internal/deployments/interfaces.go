package deployments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/studioops-backend/pkg/db/models"
	"github.com/angelmondragon/studioops-backend/pkg/pagination"
)

// Repository defines persistence operations for deployment tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAssignment(ctx context.Context, assignment *models.EquipmentAssignment) (*models.EquipmentAssignment, error)
	FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.EquipmentAssignment, error)
	CloseAssignment(ctx context.Context, assignmentID uuid.UUID, notes *string, returnedAt time.Time) (int64, error)
	ListOpenAssignments(ctx context.Context) ([]models.EquipmentAssignment, error)
	ListDeployableEquipment(ctx context.Context) ([]models.Equipment, error)
	ListActiveProfiles(ctx context.Context) ([]models.Profile, error)
	ListActiveClients(ctx context.Context) ([]models.Client, error)
	ListEquipmentHistory(ctx context.Context, equipmentID uuid.UUID, params pagination.Params) ([]models.EquipmentAssignment, error)
}
