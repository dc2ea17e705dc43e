package deployments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/studioops-backend/pkg/enums"
)

// CreateAssignmentInput captures the data required to send gear into the field.
// The actor becomes the row's assigned_by.
type CreateAssignmentInput struct {
	EquipmentID    uuid.UUID
	EmployeeID     uuid.UUID
	ClientID       *uuid.UUID
	AssignedAt     *time.Time
	ExpectedReturn *time.Time
	Location       *string
	Notes          *string
	ActorUserID    uuid.UUID
	ActorRole      string
}

// QuickReturnInput captures the data required to close an open assignment.
// The close always stamps status=returned; no other transition is driven here.
type QuickReturnInput struct {
	AssignmentID uuid.UUID
	Notes        *string
	ActorUserID  uuid.UUID
	ActorRole    string
}

// EmployeeSummary is the employee shape returned on the deployments board.
type EmployeeSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// EquipmentSummary is the gear shape embedded in assignment views.
type EquipmentSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SerialNumber *string   `json:"serial_number,omitempty"`
	Category     *string   `json:"category,omitempty"`
}

// ClientSummary is the client shape embedded in assignment views.
type ClientSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName *string   `json:"company_name,omitempty"`
}

// AssignmentView is a single deployment row as rendered to callers.
type AssignmentView struct {
	ID             uuid.UUID              `json:"id"`
	Equipment      EquipmentSummary       `json:"equipment"`
	Client         *ClientSummary         `json:"client,omitempty"`
	AssignedBy     uuid.UUID              `json:"assigned_by"`
	Status         enums.AssignmentStatus `json:"status"`
	AssignedAt     time.Time              `json:"assigned_at"`
	ExpectedReturn *time.Time             `json:"expected_return,omitempty"`
	ReturnedAt     *time.Time             `json:"returned_at,omitempty"`
	Location       *string                `json:"location,omitempty"`
	Notes          *string                `json:"notes,omitempty"`
	IsOverdue      bool                   `json:"is_overdue"`
}

// DeploymentGroup is one employee's slice of the active board.
type DeploymentGroup struct {
	Employee    EmployeeSummary  `json:"employee"`
	Assignments []AssignmentView `json:"assignments"`
	TotalItems  int              `json:"total_items"`
	HasOverdue  bool             `json:"has_overdue"`
}

// DeploymentBoard is the full active deployments read model.
type DeploymentBoard struct {
	Groups      []DeploymentGroup `json:"groups"`
	TotalOpen   int               `json:"total_open"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// EquipmentOption is an equipment dropdown entry for the deployment form.
type EquipmentOption struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	SerialNumber *string               `json:"serial_number,omitempty"`
	Category     *string               `json:"category,omitempty"`
	Status       enums.EquipmentStatus `json:"status"`
	DailyRate    *decimal.Decimal      `json:"daily_rate,omitempty"`
}

// EmployeeOption is an employee dropdown entry for the deployment form.
type EmployeeOption struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// ClientOption is a client dropdown entry for the deployment form.
type ClientOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FormData bundles the dropdown sources for the deployment form.
type FormData struct {
	Equipment []EquipmentOption `json:"equipment"`
	Employees []EmployeeOption  `json:"employees"`
	Clients   []ClientOption    `json:"clients"`
}

// EmployeeRef is the employee shape embedded in history entries.
type EmployeeRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// HistoryEntry is one row of an equipment's assignment history.
type HistoryEntry struct {
	ID         uuid.UUID              `json:"id"`
	Employee   EmployeeRef            `json:"employee"`
	Client     *ClientSummary         `json:"client,omitempty"`
	Status     enums.AssignmentStatus `json:"status"`
	AssignedAt time.Time              `json:"assigned_at"`
	ReturnedAt *time.Time             `json:"returned_at,omitempty"`
	Location   *string                `json:"location,omitempty"`
	Notes      *string                `json:"notes,omitempty"`
}

// EquipmentHistory wraps the paginated history plus the next page cursor.
type EquipmentHistory struct {
	Entries    []HistoryEntry `json:"entries"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
