package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/yigit/projecttracker/internal/app/auth"
	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// UserService handles the student and supervisor profile operations
type UserService struct {
	users    repositories.UserRepository
	projects repositories.ProjectRepository
	authz    *appauth.AuthorizationService
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		projects: projects,
		authz:    authz,
		logger:   logger,
	}
}

// ListStudents returns every student
func (s *UserService) ListStudents(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx, models.RoleStudent)
}

// GetStudent returns a student by id
func (s *UserService) GetStudent(ctx context.Context, id string) (*models.User, error) {
	return s.authz.GetUserWithRole(ctx, id, models.RoleStudent, apperrors.ErrStudentNotFound)
}

// ListSupervisors returns every supervisor
func (s *UserService) ListSupervisors(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx, models.RoleSupervisor)
}

// GetSupervisor returns a supervisor by id
func (s *UserService) GetSupervisor(ctx context.Context, id string) (*models.User, error) {
	return s.authz.GetUserWithRole(ctx, id, models.RoleSupervisor, apperrors.ErrSupervisorNotFound)
}

// ListUsers returns every account regardless of role
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx, "")
}

// UpdateStudent edits a student profile. The student themself or an admin may do so.
func (s *UserService) UpdateStudent(ctx context.Context, actor appauth.Actor, id string, req *dto.UpdateStudentRequest) (*models.User, error) {
	student, err := s.authz.AuthorizeStudentUpdate(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	verr := &apperrors.ValidationError{}
	applyProfileUpdate(student, req.ProfileUpdate)
	validateUserFields(student, verr)
	if req.Year != nil {
		student.Student.Year = *req.Year
		validateYear(student.Student.Year, verr)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.saveProfile(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.ID).Str("actorID", actor.ID).Msg("Student profile updated")
	return student, nil
}

// UpdateSupervisor edits a supervisor profile. Only the supervisor themself may do so.
func (s *UserService) UpdateSupervisor(ctx context.Context, actor appauth.Actor, id string, req *dto.UpdateSupervisorRequest) (*models.User, error) {
	supervisor, err := s.authz.AuthorizeSupervisorUpdate(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	verr := &apperrors.ValidationError{}
	applyProfileUpdate(supervisor, req.ProfileUpdate)
	validateUserFields(supervisor, verr)
	if req.StaffID != nil {
		supervisor.Supervisor.StaffID = strings.TrimSpace(*req.StaffID)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.saveProfile(ctx, supervisor); err != nil {
		return nil, err
	}

	s.logger.Info().Str("supervisorID", supervisor.ID).Msg("Supervisor profile updated")
	return supervisor, nil
}

// saveProfile persists u after checking that a changed email is still free
func (s *UserService) saveProfile(ctx context.Context, u *models.User) error {
	owner, err := s.users.GetByEmail(ctx, u.Email)
	switch {
	case err == nil && owner.ID != u.ID:
		return apperrors.NewDuplicateError("email")
	case err != nil && !apperrors.Is(err, apperrors.ErrResourceNotFound):
		return fmt.Errorf("error checking email: %w", err)
	}

	return s.users.UpdateProfile(ctx, u)
}

// DeleteStudent removes the caller's own student account
func (s *UserService) DeleteStudent(ctx context.Context, actor appauth.Actor, id string) error {
	student, err := s.authz.AuthorizeStudentDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.RemoveAccount(ctx, student)
}

// DeleteSupervisor removes the caller's own supervisor account
func (s *UserService) DeleteSupervisor(ctx context.Context, actor appauth.Actor, id string) error {
	supervisor, err := s.authz.AuthorizeSupervisorDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.RemoveAccount(ctx, supervisor)
}

// RemoveAccount deletes u together with the records that reference it: a student's
// projects and assignments, or a supervisor's supervised projects.
func (s *UserService) RemoveAccount(ctx context.Context, u *models.User) error {
	var removed int64
	var err error

	switch u.Role {
	case models.RoleStudent:
		if removed, err = s.projects.DeleteByStudent(ctx, u.ID); err != nil {
			return fmt.Errorf("error deleting student projects: %w", err)
		}
		if err := s.users.RemoveStudentFromSupervisors(ctx, u.ID); err != nil {
			return fmt.Errorf("error removing student assignments: %w", err)
		}
	case models.RoleSupervisor:
		if removed, err = s.projects.DeleteBySupervisor(ctx, u.ID); err != nil {
			return fmt.Errorf("error deleting supervised projects: %w", err)
		}
	}

	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}

	s.logger.Info().Str("userID", u.ID).Str("role", string(u.Role)).Int64("projectsRemoved", removed).
		Msg("Account deleted")
	return nil
}
