package enums

import "testing"

func TestParseAssignmentStatus(t *testing.T) {
	status, err := ParseAssignmentStatus("in_field")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != AssignmentStatusInField {
		t.Fatalf("expected in_field, got %q", status)
	}

	if _, err := ParseAssignmentStatus("IN_FIELD"); err == nil {
		t.Fatal("expected case-sensitive parse to reject uppercase input")
	}
	if _, err := ParseAssignmentStatus("archived"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestAssignmentStatusIsOpen(t *testing.T) {
	if !AssignmentStatusInField.IsOpen() {
		t.Fatal("in_field must be open")
	}
	if !AssignmentStatusMaintenance.IsOpen() {
		t.Fatal("maintenance must be open")
	}
	if AssignmentStatusReturned.IsOpen() {
		t.Fatal("returned must be closed")
	}
}
