package models

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentCategory groups gear for the deployment form dropdowns.
type EquipmentCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (EquipmentCategory) TableName() string {
	return "equipment_categories"
}
