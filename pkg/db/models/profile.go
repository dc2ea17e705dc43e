package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/studioops-backend/pkg/enums"
)

// Profile represents a studio employee who can hold equipment in the field.
// Credentials live with the external identity provider; this row mirrors the
// subject id from its tokens.
type Profile struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string          `gorm:"column:full_name;not null"`
	Email     string          `gorm:"column:email;not null;uniqueIndex"`
	Phone     *string         `gorm:"column:phone"`
	Role      enums.ActorRole `gorm:"column:role;not null;default:EMPLOYEE"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (Profile) TableName() string {
	return "profiles"
}
