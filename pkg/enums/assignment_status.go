package enums

import "fmt"

// AssignmentStatus tracks the lifecycle state of an equipment assignment.
type AssignmentStatus string

const (
	AssignmentStatusInField     AssignmentStatus = "in_field"
	AssignmentStatusReturned    AssignmentStatus = "returned"
	AssignmentStatusMaintenance AssignmentStatus = "maintenance"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusInField,
	AssignmentStatusReturned,
	AssignmentStatusMaintenance,
}

// String implements fmt.Stringer.
func (a AssignmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssignmentStatus.
func (a AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsOpen reports whether the status represents an assignment still out of
// storage. Only returned rows are closed.
func (a AssignmentStatus) IsOpen() bool {
	return a == AssignmentStatusInField || a == AssignmentStatusMaintenance
}

// ParseAssignmentStatus converts raw input into an AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
