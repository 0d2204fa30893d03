package models

// Role is the account type. It is fixed at creation and drives both route-level
// and resource-level authorization.
type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// ProjectStatus is the review state of a project
type ProjectStatus string

const (
	StatusPending  ProjectStatus = "pending"
	StatusApproved ProjectStatus = "approved"
	StatusRejected ProjectStatus = "rejected"
)

// ProjectStatuses lists every valid status in display order
var ProjectStatuses = []ProjectStatus{StatusPending, StatusApproved, StatusRejected}

// Valid reports whether s is one of the known statuses
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
