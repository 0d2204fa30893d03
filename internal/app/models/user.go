package models

import (
	"time"
)

// User is the shared identity record. Exactly one of Student or Supervisor is set
// for the matching role; admins carry neither.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"-"` // bcrypt hash, never serialized
	Role       Role      `json:"role"`
	Contact    string    `json:"contact,omitempty"`
	Department string    `json:"department,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Picture    string    `json:"picture,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Student    *StudentProfile    `json:"student,omitempty"`
	Supervisor *SupervisorProfile `json:"supervisor,omitempty"`
}

// StudentProfile holds the student-only fields
type StudentProfile struct {
	Year      int   `json:"year"`
	StudentID int64 `json:"studentId"`
}

// SupervisorProfile holds the supervisor-only fields. Students is the list maintained
// by the admin assign operation; it is not derived from projects.
type SupervisorProfile struct {
	StaffID  string   `json:"staffId,omitempty"`
	Students []string `json:"students"`
}

// HasStudent reports whether studentID is already in the supervisor's list
func (p *SupervisorProfile) HasStudent(studentID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// UserSummary is the reduced view embedded in populated projects
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the populated-reference view of the user
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
