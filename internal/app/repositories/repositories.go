package repositories

import (
	"context"

	"github.com/yigit/projecttracker/internal/app/models"
)

// UserRepository defines the storage operations on the users collection.
// Lookups of a missing or malformed id return apperrors.ErrUserNotFound; unique
// violations are returned as *apperrors.ValidationError naming the field.
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	List(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error

	// Authentication
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// Supervisor assignment list
	AddStudentToSupervisor(ctx context.Context, supervisorID, studentID string) error
	RemoveStudentFromSupervisors(ctx context.Context, studentID string) error

	// Statistics
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// ProjectFilter narrows project listings. Zero-valued fields match everything.
type ProjectFilter struct {
	Status       models.ProjectStatus
	StudentID    string
	SupervisorID string
}

// ProjectRepository defines the storage operations on projects. Listings are ordered
// newest first.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
	DeleteByStudent(ctx context.Context, studentID string) (int64, error)
	DeleteBySupervisor(ctx context.Context, supervisorID string) (int64, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Users    UserRepository
	Projects ProjectRepository
}
