// Package auth holds the resource-level authorization rules that run after the
// route-level role gate: who may act on a given project or profile.
package auth

import (
	"context"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// Actor is the authenticated caller as established from the token
type Actor struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsOwnerOrAdmin reports whether actor is one of ownerIDs, or an admin when allowAdmin is set
func IsOwnerOrAdmin(actor Actor, allowAdmin bool, ownerIDs ...string) bool {
	if allowAdmin && actor.IsAdmin() {
		return true
	}
	for _, id := range ownerIDs {
		if id != "" && id == actor.ID {
			return true
		}
	}
	return false
}

// Forbidden messages
var (
	ErrProjectUpdateDenied    = apperrors.NewForbiddenError("Not authorized to update this project")
	ErrProjectReviewDenied    = apperrors.NewForbiddenError("Not authorized to review this project")
	ErrDocumentationDenied    = apperrors.NewForbiddenError("Not authorized to update documentation for this project")
	ErrProjectDeleteDenied    = apperrors.NewForbiddenError("Not authorized to delete this project")
	ErrStudentUpdateDenied    = apperrors.NewForbiddenError("Not authorized to update this student")
	ErrStudentDeleteDenied    = apperrors.NewForbiddenError("Not authorized to delete this student")
	ErrSupervisorUpdateDenied = apperrors.NewForbiddenError("Not authorized to update this supervisor")
	ErrSupervisorDeleteDenied = apperrors.NewForbiddenError("Not authorized to delete this supervisor")
)

// AuthorizationService loads the target resource and applies the ownership rule.
// A missing resource is reported before a denied one.
type AuthorizationService struct {
	users    repositories.UserRepository
	projects repositories.ProjectRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users repositories.UserRepository, projects repositories.ProjectRepository) *AuthorizationService {
	return &AuthorizationService{
		users:    users,
		projects: projects,
	}
}

// ProjectAction names an operation on an existing project
type ProjectAction int

const (
	// ProjectUpdate edits content; open to the owning student, the assigned supervisor and admins
	ProjectUpdate ProjectAction = iota
	// ProjectReview sets status and feedback; assigned supervisor only
	ProjectReview
	// ProjectDocumentation sets the documentation; owning student only
	ProjectDocumentation
	// ProjectDelete removes the project; owning student only
	ProjectDelete
)

// AuthorizeProject returns the project when actor may perform action on it
func (s *AuthorizationService) AuthorizeProject(ctx context.Context, actor Actor, projectID string, action ProjectAction) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var allowed bool
	var denied error
	switch action {
	case ProjectUpdate:
		allowed = IsOwnerOrAdmin(actor, true, project.StudentID, project.SupervisorID)
		denied = ErrProjectUpdateDenied
	case ProjectReview:
		allowed = IsOwnerOrAdmin(actor, false, project.SupervisorID)
		denied = ErrProjectReviewDenied
	case ProjectDocumentation:
		allowed = IsOwnerOrAdmin(actor, false, project.StudentID)
		denied = ErrDocumentationDenied
	case ProjectDelete:
		allowed = IsOwnerOrAdmin(actor, false, project.StudentID)
		denied = ErrProjectDeleteDenied
	default:
		denied = apperrors.ErrPermissionDenied
	}

	if !allowed {
		return nil, denied
	}
	return project, nil
}

// GetUserWithRole loads a user and reports notFound unless it has role
func (s *AuthorizationService) GetUserWithRole(ctx context.Context, id string, role models.Role, notFound error) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	if user.Role != role {
		return nil, notFound
	}
	return user, nil
}

// AuthorizeStudentUpdate allows the student themself or an admin
func (s *AuthorizationService) AuthorizeStudentUpdate(ctx context.Context, actor Actor, studentID string) (*models.User, error) {
	student, err := s.GetUserWithRole(ctx, studentID, models.RoleStudent, apperrors.ErrStudentNotFound)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(actor, true, student.ID) {
		return nil, ErrStudentUpdateDenied
	}
	return student, nil
}

// AuthorizeStudentDelete allows only the student themself
func (s *AuthorizationService) AuthorizeStudentDelete(ctx context.Context, actor Actor, studentID string) (*models.User, error) {
	student, err := s.GetUserWithRole(ctx, studentID, models.RoleStudent, apperrors.ErrStudentNotFound)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(actor, false, student.ID) {
		return nil, ErrStudentDeleteDenied
	}
	return student, nil
}

// AuthorizeSupervisorUpdate allows only the supervisor themself
func (s *AuthorizationService) AuthorizeSupervisorUpdate(ctx context.Context, actor Actor, supervisorID string) (*models.User, error) {
	supervisor, err := s.GetUserWithRole(ctx, supervisorID, models.RoleSupervisor, apperrors.ErrSupervisorNotFound)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(actor, false, supervisor.ID) {
		return nil, ErrSupervisorUpdateDenied
	}
	return supervisor, nil
}

// AuthorizeSupervisorDelete allows only the supervisor themself
func (s *AuthorizationService) AuthorizeSupervisorDelete(ctx context.Context, actor Actor, supervisorID string) (*models.User, error) {
	supervisor, err := s.GetUserWithRole(ctx, supervisorID, models.RoleSupervisor, apperrors.ErrSupervisorNotFound)
	if err != nil {
		return nil, err
	}
	if !IsOwnerOrAdmin(actor, false, supervisor.ID) {
		return nil, ErrSupervisorDeleteDenied
	}
	return supervisor, nil
}
