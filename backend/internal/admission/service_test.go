package admission

import (
	"strings"
	"testing"
	"time"

	"schoolhub/backend/internal/shared"
)

func TestNewAdmissionDefaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	req := &CreateRequest{
		FullName:           "  John Doe  ",
		Email:              "John@Example.COM",
		Phone:              "01712345678",
		SelectedUniversity: "University of Dhaka",
		SelectedProgram:    "CSE",
		TotalFee:           100,
	}

	a := NewAdmission("usr_123", req, now)

	if a.UserID != "usr_123" {
		t.Errorf("Expected userId usr_123, got %q", a.UserID)
	}
	if a.FullName != "John Doe" {
		t.Errorf("Expected trimmed name, got %q", a.FullName)
	}
	if a.Email != "john@example.com" {
		t.Errorf("Expected lowercased email, got %q", a.Email)
	}

	if a.Status != shared.AdmissionStatusPending {
		t.Errorf("Expected initial status Pending, got %q", a.Status)
	}
	if a.PaymentStatus != shared.PaymentStatusCompleted {
		t.Errorf("Expected default payment status Completed, got %q", a.PaymentStatus)
	}
	if a.Nationality != shared.DefaultNationality {
		t.Errorf("Expected default nationality %q, got %q", shared.DefaultNationality, a.Nationality)
	}
	if a.ServiceFee != shared.DefaultServiceFee {
		t.Errorf("Expected service fee %.0f, got %.0f", shared.DefaultServiceFee, a.ServiceFee)
	}
	if a.AdmissionFee != shared.DefaultAdmissionFee {
		t.Errorf("Expected admission fee %.0f, got %.0f", shared.DefaultAdmissionFee, a.AdmissionFee)
	}
	if a.AdminRemarks != "" {
		t.Errorf("Expected empty admin remarks, got %q", a.AdminRemarks)
	}
	if !a.IsPending() {
		t.Error("Expected new application to be pending")
	}
}

func TestNewAdmissionApplicationID(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	req := &CreateRequest{FullName: "John Doe", Email: "john@example.com", TotalFee: 100}

	a := NewAdmission("usr_123", req, now)
	b := NewAdmission("usr_123", req, now)

	if !strings.HasPrefix(a.ApplicationID, "APP2026-") {
		t.Errorf("Expected APP2026- prefix, got %q", a.ApplicationID)
	}
	if a.ApplicationID == b.ApplicationID {
		t.Error("Expected distinct application IDs for repeated submissions")
	}
	if a.ID == b.ID {
		t.Error("Expected distinct record IDs")
	}
}

func TestNewAdmissionExplicitValuesKept(t *testing.T) {
	now := time.Now()
	req := &CreateRequest{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Nationality:  "Indian",
		AdmissionFee: 250,
		TotalFee:     350,
	}

	a := NewAdmission("usr_456", req, now)

	if a.Nationality != "Indian" {
		t.Errorf("Expected explicit nationality kept, got %q", a.Nationality)
	}
	if a.AdmissionFee != 250 {
		t.Errorf("Expected explicit admission fee kept, got %.0f", a.AdmissionFee)
	}
}
