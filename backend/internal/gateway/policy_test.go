package gateway

import (
	"testing"

	"schoolhub/backend/internal/shared"
)

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		role string
		op   Operation
		want bool
	}{
		// Open to every authenticated role
		{shared.RoleStudent, OpProfileRead, true},
		{shared.RoleStudent, OpProfileUpdate, true},
		{shared.RoleStudent, OpAdmissionCreate, true},
		{shared.RoleStudent, OpAdmissionListOwn, true},
		{shared.RoleStudent, OpResultListOwn, true},
		{shared.RoleStudent, OpResultRead, true},
		{shared.RoleTeacher, OpAdmissionCreate, true},
		{shared.RoleParent, OpResultListOwn, true},

		// Admin-only operations
		{shared.RoleStudent, OpAdmissionListAll, false},
		{shared.RoleStudent, OpAdmissionUpdateStatus, false},
		{shared.RoleStudent, OpResultCreate, false},
		{shared.RoleStudent, OpResultListAll, false},
		{shared.RoleStudent, OpResultUpdate, false},
		{shared.RoleStudent, OpResultDelete, false},
		{shared.RoleTeacher, OpResultCreate, false},
		{shared.RoleParent, OpAdmissionListAll, false},

		// Admin can do everything
		{shared.RoleAdmin, OpAdmissionListAll, true},
		{shared.RoleAdmin, OpAdmissionUpdateStatus, true},
		{shared.RoleAdmin, OpResultCreate, true},
		{shared.RoleAdmin, OpResultDelete, true},
		{shared.RoleAdmin, OpProfileRead, true},

		// Unknown roles are denied everything
		{"", OpProfileRead, false},
		{"superuser", OpResultListOwn, false},
	}

	for _, c := range cases {
		if got := Allowed(c.role, c.op); got != c.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", c.role, c.op, got, c.want)
		}
	}
}
