package deployments

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/studioops-backend/pkg/db/models"
)

// buildBoard folds the open assignment rows into per-employee groups. Rows
// arrive ordered assigned_at DESC; groups keep the order in which employees
// first appear in that scan, then groups with overdue gear move to the front
// without reordering among themselves.
func buildBoard(rows []models.EquipmentAssignment, now time.Time) *DeploymentBoard {
	groups := make([]DeploymentGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		view := buildAssignmentView(row, now)

		i, ok := index[row.EmployeeID]
		if !ok {
			employee := EmployeeSummary{ID: row.EmployeeID}
			if row.Employee != nil {
				employee.FullName = row.Employee.FullName
				employee.Email = row.Employee.Email
			}
			groups = append(groups, DeploymentGroup{Employee: employee})
			i = len(groups) - 1
			index[row.EmployeeID] = i
		}

		groups[i].Assignments = append(groups[i].Assignments, view)
		groups[i].TotalItems++
		if view.IsOverdue {
			groups[i].HasOverdue = true
		}
	}

	return &DeploymentBoard{
		Groups:      partitionOverdueFirst(groups),
		TotalOpen:   len(rows),
		GeneratedAt: now,
	}
}

// partitionOverdueFirst is a stable partition: overdue groups first, relative
// order preserved on both sides.
func partitionOverdueFirst(groups []DeploymentGroup) []DeploymentGroup {
	if len(groups) < 2 {
		return groups
	}
	overdue := make([]DeploymentGroup, 0, len(groups))
	rest := make([]DeploymentGroup, 0, len(groups))
	for _, group := range groups {
		if group.HasOverdue {
			overdue = append(overdue, group)
		} else {
			rest = append(rest, group)
		}
	}
	return append(overdue, rest...)
}

func buildAssignmentView(row models.EquipmentAssignment, now time.Time) AssignmentView {
	view := AssignmentView{
		ID:             row.ID,
		Equipment:      EquipmentSummary{ID: row.EquipmentID},
		AssignedBy:     row.AssignedBy,
		Status:         row.Status,
		AssignedAt:     row.AssignedAt,
		ExpectedReturn: row.ExpectedReturn,
		ReturnedAt:     row.ReturnedAt,
		Location:       row.Location,
		Notes:          row.Notes,
		IsOverdue:      row.IsOverdue(now),
	}
	if row.Equipment != nil {
		view.Equipment.Name = row.Equipment.Name
		view.Equipment.SerialNumber = row.Equipment.SerialNumber
		if row.Equipment.Category != nil {
			category := row.Equipment.Category.Name
			view.Equipment.Category = &category
		}
	}
	if row.Client != nil {
		view.Client = &ClientSummary{
			ID:          row.Client.ID,
			Name:        row.Client.Name,
			CompanyName: row.Client.CompanyName,
		}
	}
	return view
}
