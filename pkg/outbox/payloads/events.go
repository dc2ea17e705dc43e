package payloads

import (
	"time"

	"github.com/google/uuid"
)

// DeploymentCreatedEvent signals that equipment left storage.
type DeploymentCreatedEvent struct {
	AssignmentID   uuid.UUID  `json:"assignment_id"`
	EquipmentID    uuid.UUID  `json:"equipment_id"`
	EmployeeID     uuid.UUID  `json:"employee_id"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
	AssignedAt     time.Time  `json:"assigned_at"`
	ExpectedReturn *time.Time `json:"expected_return,omitempty"`
}

// DeploymentReturnedEvent signals that equipment came back to storage.
type DeploymentReturnedEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	EquipmentID  uuid.UUID `json:"equipment_id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	ReturnedAt   time.Time `json:"returned_at"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
}
