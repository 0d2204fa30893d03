package dto

import (
	"time"

	"github.com/yigit/projecttracker/internal/app/models"
)

// UserResponse is the public view of a user. Role-specific fields are flattened and
// only present for the matching role.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Contact    string      `json:"contact,omitempty"`
	Department string      `json:"department,omitempty"`
	Bio        string      `json:"bio,omitempty"`
	Picture    string      `json:"picture,omitempty"`
	Year       int         `json:"year,omitempty"`
	StudentID  int64       `json:"studentId,omitempty"`
	StaffID    string      `json:"staffId,omitempty"`
	Students   []string    `json:"students,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// NewUserResponse converts a user model into its public view
func NewUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}

	resp := &UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Contact:    user.Contact,
		Department: user.Department,
		Bio:        user.Bio,
		Picture:    user.Picture,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}

	if user.Student != nil {
		resp.Year = user.Student.Year
		resp.StudentID = user.Student.StudentID
	}
	if user.Supervisor != nil {
		resp.StaffID = user.Supervisor.StaffID
		resp.Students = user.Supervisor.Students
	}

	return resp
}

// NewUserResponses converts a list of users
func NewUserResponses(users []*models.User) []*UserResponse {
	result := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, NewUserResponse(u))
	}
	return result
}

// ProfileUpdate holds the profile fields shared by students and supervisors.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Contact    *string `json:"contact,omitempty"`
	Department *string `json:"department,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Picture    *string `json:"picture,omitempty"`
}

// UpdateStudentRequest is the student profile update payload
type UpdateStudentRequest struct {
	ProfileUpdate
	Year *int `json:"year,omitempty"`
}

// UpdateSupervisorRequest is the supervisor profile update payload
type UpdateSupervisorRequest struct {
	ProfileUpdate
	StaffID *string `json:"staffId,omitempty"`
}
