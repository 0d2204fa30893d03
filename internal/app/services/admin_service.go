package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appauth "github.com/yigit/projecttracker/internal/app/auth"
	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// AdminService handles the operations reserved to admins
type AdminService struct {
	users    repositories.UserRepository
	projects repositories.ProjectRepository
	authz    *appauth.AuthorizationService
	accounts *UserService
	logger   zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	authz *appauth.AuthorizationService,
	accounts *UserService,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		projects: projects,
		authz:    authz,
		accounts: accounts,
		logger:   logger,
	}
}

// AssignStudent adds the student to the supervisor's list. Repeating it changes nothing.
func (s *AdminService) AssignStudent(ctx context.Context, req *dto.AssignStudentRequest) (*models.User, error) {
	student, err := s.authz.GetUserWithRole(ctx, req.StudentID, models.RoleStudent, apperrors.ErrStudentNotFound)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.authz.GetUserWithRole(ctx, req.SupervisorID, models.RoleSupervisor, apperrors.ErrSupervisorNotFound)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddStudentToSupervisor(ctx, supervisor.ID, student.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.ID).Str("supervisorID", supervisor.ID).Msg("Student assigned to supervisor")
	return s.users.GetByID(ctx, supervisor.ID)
}

// DeleteUser removes any account and the records that reference it
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.accounts.RemoveAccount(ctx, user)
}

// Stats aggregates the dashboard counters. Every status is counted directly.
func (s *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	var err error

	if stats.Students, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}
	if stats.Supervisors, err = s.users.CountByRole(ctx, models.RoleSupervisor); err != nil {
		return nil, fmt.Errorf("error counting supervisors: %w", err)
	}
	if stats.Projects, err = s.projects.Count(ctx, repositories.ProjectFilter{}); err != nil {
		return nil, fmt.Errorf("error counting projects: %w", err)
	}

	counters := map[models.ProjectStatus]*int64{
		models.StatusPending:  &stats.PendingProjects,
		models.StatusApproved: &stats.ApprovedProjects,
		models.StatusRejected: &stats.RejectedProjects,
	}
	for _, status := range models.ProjectStatuses {
		n, err := s.projects.Count(ctx, repositories.ProjectFilter{Status: status})
		if err != nil {
			return nil, fmt.Errorf("error counting %s projects: %w", status, err)
		}
		*counters[status] = n
	}

	return &stats, nil
}
