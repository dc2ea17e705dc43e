package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/studioops-backend/pkg/enums"
)

// Equipment represents a single trackable piece of studio gear.
type Equipment struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string                `gorm:"column:name;not null"`
	CategoryID   *uuid.UUID            `gorm:"column:category_id;type:uuid"`
	Category     *EquipmentCategory    `gorm:"foreignKey:CategoryID"`
	SerialNumber *string               `gorm:"column:serial_number;uniqueIndex"`
	Status       enums.EquipmentStatus `gorm:"column:status;not null;default:AVAILABLE"`
	DailyRate    *decimal.Decimal      `gorm:"column:daily_rate;type:numeric(10,2)"`
	PurchasedAt  *time.Time            `gorm:"column:purchased_at"`
	Notes        *string               `gorm:"column:notes"`
	DeletedAt    *time.Time            `gorm:"column:deleted_at"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (Equipment) TableName() string {
	return "equipment"
}
