package dto

import "github.com/yigit/projecttracker/internal/app/models"

// RegisterRequest represents the self-registration payload. Year and StudentID are
// required for students, StaffID is optional for supervisors.
type RegisterRequest struct {
	Name       string      `json:"name" binding:"required,min=2,max=50" example:"Ada Lovelace"`
	Email      string      `json:"email" binding:"required,looseemail" example:"ada@uni.edu"`
	Password   string      `json:"password" binding:"required,min=8" example:"secret123"`
	Role       models.Role `json:"role" binding:"required" example:"student" enums:"student,supervisor"`
	Contact    string      `json:"contact" binding:"omitempty,contact" example:"0123456789"`
	Department string      `json:"department" example:"Computer Science"`
	Bio        string      `json:"bio" binding:"omitempty,max=500"`
	Picture    string      `json:"picture"`
	Year       *int        `json:"year,omitempty" example:"3"`
	StudentID  *int64      `json:"studentId,omitempty" example:"20231234"`
	StaffID    string      `json:"staffId,omitempty" example:"S-001"`
}

// RoleProbe reads only the role from a registration body
type RoleProbe struct {
	Role models.Role `json:"role"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string      `json:"email" binding:"required" example:"ada@uni.edu"`
	Password string      `json:"password" binding:"required" example:"secret123"`
	UserType models.Role `json:"userType" binding:"required" example:"student" enums:"student,supervisor,admin"`
}

// AuthUser is the identity returned with a freshly issued token
type AuthUser struct {
	ID    string      `json:"id" example:"6630f0c2a1b2c3d4e5f60718"`
	Name  string      `json:"name" example:"Ada Lovelace"`
	Email string      `json:"email" example:"ada@uni.edu"`
	Role  models.Role `json:"role" example:"student"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// NewAuthResponse creates the token payload for user
func NewAuthResponse(token string, user *models.User) *AuthResponse {
	return &AuthResponse{
		Token: token,
		User: AuthUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}
}
