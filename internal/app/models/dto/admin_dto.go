package dto

import "github.com/yigit/projecttracker/internal/app/models"

// AssignStudentRequest links a student to a supervisor
type AssignStudentRequest struct {
	StudentID    string `json:"studentId" binding:"required"`
	SupervisorID string `json:"supervisorId" binding:"required"`
}

// CreateAdminRequest creates another admin account
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,looseemail"`
	Password string `json:"password" binding:"required,min=8"`
}

// AssignmentResponse reports the supervisor's assignment list after an assignment
type AssignmentResponse struct {
	Student    string   `json:"student" example:"6630f0c2a1b2c3d4e5f60718"`
	Supervisor string   `json:"supervisor" example:"6630f0c2a1b2c3d4e5f60719"`
	Students   []string `json:"students"`
}

// NewAssignmentResponse builds the assignment result from the refreshed supervisor
func NewAssignmentResponse(studentID string, supervisor *models.User) *AssignmentResponse {
	resp := &AssignmentResponse{
		Student:    studentID,
		Supervisor: supervisor.ID,
		Students:   []string{},
	}
	if supervisor.Supervisor != nil && supervisor.Supervisor.Students != nil {
		resp.Students = supervisor.Supervisor.Students
	}
	return resp
}
