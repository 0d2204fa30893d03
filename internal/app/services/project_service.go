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
	"github.com/yigit/projecttracker/internal/pkg/helpers"
	"github.com/yigit/projecttracker/internal/pkg/validation"
)

// ProjectService handles the project lifecycle
type ProjectService struct {
	users    repositories.UserRepository
	projects repositories.ProjectRepository
	authz    *appauth.AuthorizationService
	logger   zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		users:    users,
		projects: projects,
		authz:    authz,
		logger:   logger,
	}
}

// FilterFromQuery validates the list query parameters
func FilterFromQuery(q dto.ProjectListQuery) (repositories.ProjectFilter, error) {
	filter := repositories.ProjectFilter{
		Status:       models.ProjectStatus(strings.TrimSpace(q.Status)),
		StudentID:    strings.TrimSpace(q.StudentID),
		SupervisorID: strings.TrimSpace(q.SupervisorID),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, apperrors.NewValidationError("status", "Invalid status value")
	}
	return filter, nil
}

func validateTitle(title string, verr *apperrors.ValidationError) {
	if !validation.NewStringValidation(title).WithMinLength(validation.ProjectTitleMinLength).Validate() {
		verr.Add("title", "Title must be at least 2 characters")
	}
}

// Create submits a new pending project for the calling student
func (s *ProjectService) Create(ctx context.Context, actor appauth.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &models.Project{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Proposal:     strings.TrimSpace(req.Proposal),
		Status:       models.StatusPending,
		StudentID:    actor.ID,
		SupervisorID: strings.TrimSpace(req.SupervisorID),
	}

	verr := &apperrors.ValidationError{}
	validateTitle(project.Title, verr)
	if project.Description == "" {
		verr.Add("description", "Description is required")
	}
	if project.Proposal == "" {
		verr.Add("proposal", "Proposal is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	student, err := s.authz.GetUserWithRole(ctx, actor.ID, models.RoleStudent, apperrors.ErrStudentNotFound)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.authz.GetUserWithRole(ctx, project.SupervisorID, models.RoleSupervisor, apperrors.ErrSupervisorNotFound)
	if err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}

	s.logger.Info().Str("projectID", project.ID).Str("studentID", student.ID).
		Str("supervisorID", supervisor.ID).Msg("Project created")
	return dto.NewProjectResponse(project, student, supervisor), nil
}

// List returns the projects matching filter with both parties populated
func (s *ProjectService) List(ctx context.Context, filter repositories.ProjectFilter) ([]*dto.ProjectResponse, error) {
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return s.populate(ctx, projects)
}

// ListForStudent returns the caller's own projects
func (s *ProjectService) ListForStudent(ctx context.Context, actor appauth.Actor) ([]*dto.ProjectResponse, error) {
	return s.List(ctx, repositories.ProjectFilter{StudentID: actor.ID})
}

// ListForSupervisor returns the projects the caller supervises
func (s *ProjectService) ListForSupervisor(ctx context.Context, actor appauth.Actor) ([]*dto.ProjectResponse, error) {
	return s.List(ctx, repositories.ProjectFilter{SupervisorID: actor.ID})
}

// Get returns one populated project
func (s *ProjectService) Get(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, project)
}

// Update edits the content fields. Parties and status are not writable here.
func (s *ProjectService) Update(ctx context.Context, actor appauth.Actor, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.authz.AuthorizeProject(ctx, actor, id, appauth.ProjectUpdate)
	if err != nil {
		return nil, err
	}

	verr := &apperrors.ValidationError{}
	if req.Title != nil {
		project.Title = trimmed(req.Title)
		validateTitle(project.Title, verr)
	}
	if req.Description != nil {
		project.Description = trimmed(req.Description)
		if project.Description == "" {
			verr.Add("description", "Description is required")
		}
	}
	if req.Proposal != nil {
		project.Proposal = trimmed(req.Proposal)
		if project.Proposal == "" {
			verr.Add("proposal", "Proposal is required")
		}
	}
	if req.Documentation != nil {
		project.Documentation = trimmed(req.Documentation)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID).Str("actorID", actor.ID).Msg("Project updated")
	return s.populateOne(ctx, project)
}

// Review records the assigned supervisor's decision
func (s *ProjectService) Review(ctx context.Context, actor appauth.Actor, id string, req *dto.ReviewProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.authz.AuthorizeProject(ctx, actor, id, appauth.ProjectReview)
	if err != nil {
		return nil, err
	}

	verr := &apperrors.ValidationError{}
	if !req.Status.Valid() {
		verr.Add("status", "Invalid status value")
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		due, err := helpers.ParseDate(*req.DueDate)
		if err != nil {
			verr.Add("dueDate", "Invalid due date")
		} else {
			project.DueDate = &due
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	project.Status = req.Status
	// Empty feedback keeps the previous comment
	if req.Feedback != nil && strings.TrimSpace(*req.Feedback) != "" {
		project.Feedback = trimmed(req.Feedback)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID).Str("status", string(project.Status)).Msg("Project reviewed")
	return s.populateOne(ctx, project)
}

// UpdateDocumentation sets the documentation of the caller's own project
func (s *ProjectService) UpdateDocumentation(ctx context.Context, actor appauth.Actor, id string, req *dto.DocumentationRequest) (*dto.ProjectResponse, error) {
	project, err := s.authz.AuthorizeProject(ctx, actor, id, appauth.ProjectDocumentation)
	if err != nil {
		return nil, err
	}

	project.Documentation = strings.TrimSpace(req.Documentation)
	if project.Documentation == "" {
		return nil, apperrors.NewValidationError("documentation", "Documentation is required")
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID).Msg("Project documentation updated")
	return s.populateOne(ctx, project)
}

// Delete removes the caller's own project
func (s *ProjectService) Delete(ctx context.Context, actor appauth.Actor, id string) error {
	project, err := s.authz.AuthorizeProject(ctx, actor, id, appauth.ProjectDelete)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return err
	}

	s.logger.Info().Str("projectID", project.ID).Msg("Project deleted")
	return nil
}

// OverrideStatus sets the status directly, bypassing the supervisor review
func (s *ProjectService) OverrideStatus(ctx context.Context, id string, req *dto.ProjectStatusRequest) (*dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("status", "Invalid status value")
	}

	project.Status = req.Status
	if req.Feedback != nil {
		project.Feedback = trimmed(req.Feedback)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID).Str("status", string(project.Status)).Msg("Project status overridden")
	return s.populateOne(ctx, project)
}

func (s *ProjectService) populateOne(ctx context.Context, project *models.Project) (*dto.ProjectResponse, error) {
	populated, err := s.populate(ctx, []*models.Project{project})
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// populate resolves the student and supervisor of every project in one lookup.
// A party that no longer exists is left out of the response.
func (s *ProjectService) populate(ctx context.Context, projects []*models.Project) ([]*dto.ProjectResponse, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(projects)*2)
	for _, p := range projects {
		for _, id := range []string{p.StudentID, p.SupervisorID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users := map[string]*models.User{}
	if len(ids) > 0 {
		var err error
		users, err = s.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("error populating projects: %w", err)
		}
	}

	result := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		result = append(result, dto.NewProjectResponse(p, users[p.StudentID], users[p.SupervisorID]))
	}
	return result, nil
}
