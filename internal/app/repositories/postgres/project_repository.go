package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

var projectColumns = []string{
	"id::text", "title", "description", "proposal", "status", "student_id::text", "supervisor_id::text",
	"documentation", "due_date", "feedback", "created_at", "updated_at",
}

// ProjectRepository handles project-related database operations
type ProjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ repositories.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// projectWhere converts f into a condition. ok is false when f references a malformed
// id and therefore cannot match any row.
func projectWhere(f repositories.ProjectFilter) (where squirrel.And, ok bool) {
	where = squirrel.And{}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": string(f.Status)})
	}
	if f.StudentID != "" {
		if !validID(f.StudentID) {
			return nil, false
		}
		where = append(where, squirrel.Eq{"student_id": f.StudentID})
	}
	if f.SupervisorID != "" {
		if !validID(f.SupervisorID) {
			return nil, false
		}
		where = append(where, squirrel.Eq{"supervisor_id": f.SupervisorID})
	}
	return where, true
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var status string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Proposal, &status, &p.StudentID, &p.SupervisorID,
		&p.Documentation, &p.DueDate, &p.Feedback, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)
	return &p, nil
}

// Create inserts a new project and sets its id and timestamps
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if !validID(project.StudentID) {
		return apperrors.ErrStudentNotFound
	}
	if !validID(project.SupervisorID) {
		return apperrors.ErrSupervisorNotFound
	}

	id := uuid.New()
	now := time.Now().UTC()

	sql, args, err := r.sb.Insert("projects").
		Columns("id", "title", "description", "proposal", "status", "student_id", "supervisor_id",
			"documentation", "due_date", "feedback", "created_at", "updated_at").
		Values(id.String(), project.Title, project.Description, project.Proposal, string(project.Status),
			project.StudentID, project.SupervisorID, project.Documentation, project.DueDate,
			project.Feedback, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create project query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	project.ID = id.String()
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

// GetByID retrieves a project by id
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if !validID(id) {
		return nil, apperrors.ErrProjectNotFound
	}

	sql, args, err := r.sb.Select(projectColumns...).From("projects").
		Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get project query: %w", err)
	}

	project, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	return project, nil
}

// List retrieves the projects matching filter, newest first
func (r *ProjectRepository) List(ctx context.Context, f repositories.ProjectFilter) ([]*models.Project, error) {
	projects := []*models.Project{}
	where, ok := projectWhere(f)
	if !ok {
		return projects, nil
	}

	sql, args, err := r.sb.Select(projectColumns...).From("projects").
		Where(where).OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list projects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project row: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// Update writes the mutable project fields. Student and supervisor never change.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	if !validID(project.ID) {
		return apperrors.ErrProjectNotFound
	}

	project.UpdatedAt = time.Now().UTC()
	sql, args, err := r.sb.Update("projects").
		SetMap(map[string]interface{}{
			"title":         project.Title,
			"description":   project.Description,
			"proposal":      project.Proposal,
			"status":        string(project.Status),
			"documentation": project.Documentation,
			"due_date":      project.DueDate,
			"feedback":      project.Feedback,
			"updated_at":    project.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": project.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update project query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) deleteWhere(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := r.sb.Delete("projects").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete project query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting projects: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.ErrProjectNotFound
	}

	n, err := r.deleteWhere(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// DeleteByStudent removes every project owned by studentID
func (r *ProjectRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	if !validID(studentID) {
		return 0, nil
	}
	return r.deleteWhere(ctx, squirrel.Eq{"student_id": studentID})
}

// DeleteBySupervisor removes every project supervised by supervisorID
func (r *ProjectRepository) DeleteBySupervisor(ctx context.Context, supervisorID string) (int64, error) {
	if !validID(supervisorID) {
		return 0, nil
	}
	return r.deleteWhere(ctx, squirrel.Eq{"supervisor_id": supervisorID})
}

// Count counts the projects matching filter
func (r *ProjectRepository) Count(ctx context.Context, f repositories.ProjectFilter) (int64, error) {
	where, ok := projectWhere(f)
	if !ok {
		return 0, nil
	}

	sql, args, err := r.sb.Select("COUNT(*)").From("projects").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count projects query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting projects: %w", err)
	}
	return n, nil
}
