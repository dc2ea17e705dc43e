package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/studioops-backend/pkg/enums"
)

// EquipmentAssignment is one deployment of a piece of gear to an employee for
// a client. At most one row per equipment may have a NULL returned_at; the
// ux_equipment_assignments_open partial index enforces that at the storage
// layer.
type EquipmentAssignment struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EquipmentID    uuid.UUID              `gorm:"column:equipment_id;type:uuid;not null"`
	Equipment      *Equipment             `gorm:"foreignKey:EquipmentID"`
	EmployeeID     uuid.UUID              `gorm:"column:employee_id;type:uuid;not null"`
	Employee       *Profile               `gorm:"foreignKey:EmployeeID"`
	ClientID       *uuid.UUID             `gorm:"column:client_id;type:uuid"`
	Client         *Client                `gorm:"foreignKey:ClientID"`
	AssignedBy     uuid.UUID              `gorm:"column:assigned_by;type:uuid;not null"`
	Status         enums.AssignmentStatus `gorm:"column:status;not null;default:in_field"`
	AssignedAt     time.Time              `gorm:"column:assigned_at;not null"`
	ExpectedReturn *time.Time             `gorm:"column:expected_return"`
	ReturnedAt     *time.Time             `gorm:"column:returned_at"`
	Location       *string                `gorm:"column:location"`
	Notes          *string                `gorm:"column:notes"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (EquipmentAssignment) TableName() string {
	return "equipment_assignments"
}

// IsOverdue reports whether the assignment is past its expected return while
// still in the field. Maintenance and returned rows are never overdue.
func (a EquipmentAssignment) IsOverdue(now time.Time) bool {
	return a.ExpectedReturn != nil &&
		a.ExpectedReturn.Before(now) &&
		a.Status == enums.AssignmentStatusInField
}
