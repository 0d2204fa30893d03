package models

import "time"

// Project is a student proposal reviewed by one supervisor. StudentID and
// SupervisorID are fixed at creation.
type Project struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Proposal      string        `json:"proposal"`
	Status        ProjectStatus `json:"status"`
	StudentID     string        `json:"studentId"`
	SupervisorID  string        `json:"supervisorId"`
	Documentation string        `json:"documentation,omitempty"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	Feedback      string        `json:"feedback,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Stats is the admin dashboard aggregate
type Stats struct {
	Students         int64 `json:"students"`
	Supervisors      int64 `json:"supervisors"`
	Projects         int64 `json:"projects"`
	PendingProjects  int64 `json:"pendingProjects"`
	ApprovedProjects int64 `json:"approvedProjects"`
	RejectedProjects int64 `json:"rejectedProjects"`
}
