package dto

import (
	"time"

	"github.com/yigit/projecttracker/internal/app/models"
)

// CreateProjectRequest is submitted by a student. The student is taken from the token.
type CreateProjectRequest struct {
	Title        string `json:"title" binding:"required,min=2" example:"Distributed ledgers"`
	Description  string `json:"description" binding:"required"`
	Proposal     string `json:"proposal" binding:"required"`
	SupervisorID string `json:"supervisorId" binding:"required" example:"6630f0c2a1b2c3d4e5f60718"`
}

// UpdateProjectRequest carries the content fields editable by any party to the project
type UpdateProjectRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Proposal      *string `json:"proposal,omitempty"`
	Documentation *string `json:"documentation,omitempty"`
}

// ReviewProjectRequest is the supervisor's decision. DueDate accepts RFC3339 or YYYY-MM-DD.
type ReviewProjectRequest struct {
	Status   models.ProjectStatus `json:"status" example:"approved" enums:"pending,approved,rejected"`
	DueDate  *string              `json:"dueDate,omitempty" example:"2025-06-30"`
	Feedback *string              `json:"feedback,omitempty"`
}

// DocumentationRequest sets the project documentation link or text
type DocumentationRequest struct {
	Documentation string `json:"documentation" example:"https://docs.example.com/report.pdf"`
}

// ProjectStatusRequest is the admin status override
type ProjectStatusRequest struct {
	Status   models.ProjectStatus `json:"status" example:"rejected" enums:"pending,approved,rejected"`
	Feedback *string              `json:"feedback,omitempty"`
}

// ProjectListQuery holds the optional list filters
type ProjectListQuery struct {
	Status       string `form:"status"`
	StudentID    string `form:"studentId"`
	SupervisorID string `form:"supervisorId"`
}

// ProjectResponse is a project with its student and supervisor populated
type ProjectResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Proposal      string               `json:"proposal"`
	Status        models.ProjectStatus `json:"status"`
	StudentID     string               `json:"studentId"`
	Student       *models.UserSummary  `json:"student,omitempty"`
	SupervisorID  string               `json:"supervisorId"`
	Supervisor    *models.UserSummary  `json:"supervisor,omitempty"`
	Documentation string               `json:"documentation,omitempty"`
	DueDate       *time.Time           `json:"dueDate,omitempty"`
	Feedback      string               `json:"feedback,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// NewProjectResponse converts a project and its populated parties. Either party may be nil.
func NewProjectResponse(p *models.Project, student, supervisor *models.User) *ProjectResponse {
	return &ProjectResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Proposal:      p.Proposal,
		Status:        p.Status,
		StudentID:     p.StudentID,
		Student:       student.Summary(),
		SupervisorID:  p.SupervisorID,
		Supervisor:    supervisor.Summary(),
		Documentation: p.Documentation,
		DueDate:       p.DueDate,
		Feedback:      p.Feedback,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
