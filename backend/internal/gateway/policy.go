package gateway

import "schoolhub/backend/internal/shared"

// Operation names the role-gated actions exposed by the API.
type Operation string

const (
	OpAdmissionCreate       Operation = "admission:create"
	OpAdmissionListOwn      Operation = "admission:list-own"
	OpAdmissionListAll      Operation = "admission:list-all"
	OpAdmissionUpdateStatus Operation = "admission:update-status"

	OpResultCreate  Operation = "result:create"
	OpResultRead    Operation = "result:read"
	OpResultListOwn Operation = "result:list-own"
	OpResultListAll Operation = "result:list-all"
	OpResultUpdate  Operation = "result:update"
	OpResultDelete  Operation = "result:delete"

	OpProfileRead   Operation = "profile:read"
	OpProfileUpdate Operation = "profile:update"
)

// adminOnly marks the operations every non-admin role is denied.
var adminOnly = map[Operation]bool{
	OpAdmissionListAll:      true,
	OpAdmissionUpdateStatus: true,
	OpResultCreate:          true,
	OpResultListAll:         true,
	OpResultUpdate:          true,
	OpResultDelete:          true,
}

// Allowed maps (role, operation) to allow/deny. Authentication is checked
// before this gate; an unknown role is denied everything.
func Allowed(role string, op Operation) bool {
	if !shared.IsValidRole(role) {
		return false
	}
	if adminOnly[op] {
		return role == shared.RoleAdmin
	}
	// Own-record operations are open to every authenticated role; the
	// owning-record scoping itself happens in the services.
	return true
}
