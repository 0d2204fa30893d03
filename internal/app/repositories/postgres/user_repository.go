// Package postgres implements the repositories on PostgreSQL with pgx and squirrel.
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
	"github.com/yigit/projecttracker/internal/pkg/dberrors"
	"github.com/yigit/projecttracker/internal/pkg/logger"
)

// uniqueConstraintFields maps the users table constraints onto API field names
var uniqueConstraintFields = map[string]string{
	"users_email_key":          "email",
	"users_student_number_key": "studentId",
	"users_staff_id_key":       "staffId",
}

var userColumns = []string{
	"id::text", "name", "email", "password", "role", "contact", "department", "bio", "picture",
	"year", "student_number", "staff_id", "created_at", "updated_at",
}

// UserRepository handles user-related database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// NewRepositories creates the PostgreSQL-backed repositories
func NewRepositories(db *pgxpool.Pool) *repositories.Repositories {
	return &repositories.Repositories{
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
	}
}

// validID reports whether id can be a primary key; malformed ids match nothing
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func translateWriteError(err error) error {
	if field, ok := dberrors.PostgresDuplicateField(err, uniqueConstraintFields); ok {
		return apperrors.NewDuplicateError(field)
	}
	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u         models.User
		role      string
		year      *int
		studentNo *int64
		staffID   *string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.Contact, &u.Department,
		&u.Bio, &u.Picture, &year, &studentNo, &staffID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	u.Role = models.Role(role)
	switch u.Role {
	case models.RoleStudent:
		u.Student = &models.StudentProfile{}
		if year != nil {
			u.Student.Year = *year
		}
		if studentNo != nil {
			u.Student.StudentID = *studentNo
		}
	case models.RoleSupervisor:
		u.Supervisor = &models.SupervisorProfile{Students: []string{}}
		if staffID != nil {
			u.Supervisor.StaffID = *staffID
		}
	}
	return &u, nil
}

// Create inserts a new user and sets its id and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	id := uuid.New()
	now := time.Now().UTC()

	var year *int
	var studentNo *int64
	var staffID *string
	if user.Student != nil {
		year, studentNo = &user.Student.Year, &user.Student.StudentID
	}
	if user.Supervisor != nil {
		staffID = nullableString(user.Supervisor.StaffID)
		if user.Supervisor.Students == nil {
			user.Supervisor.Students = []string{}
		}
	}

	sql, args, err := r.sb.Insert("users").
		Columns("id", "name", "email", "password", "role", "contact", "department", "bio", "picture",
			"year", "student_number", "staff_id", "created_at", "updated_at").
		Values(id.String(), user.Name, user.Email, user.Password, string(user.Role), user.Contact,
			user.Department, user.Bio, user.Picture, year, studentNo, staffID, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating user: %w", translateWriteError(err))
	}

	user.ID = id.String()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user.Supervisor != nil {
		if err := r.loadStudents(ctx, []*models.User{user}); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, apperrors.ErrUserNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.User, error) {
	query := r.sb.Select(userColumns...).From("users").OrderBy("created_at ASC", "id ASC")
	if where != nil {
		query = query.Where(where)
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	if err := r.loadStudents(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// loadStudents fills the assignment list of every supervisor in users
func (r *UserRepository) loadStudents(ctx context.Context, users []*models.User) error {
	bySupervisor := make(map[string]*models.User)
	ids := make([]string, 0)
	for _, u := range users {
		if u.Supervisor != nil {
			bySupervisor[u.ID] = u
			ids = append(ids, u.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := r.sb.Select("supervisor_id::text", "student_id::text").
		From("supervisor_students").
		Where(squirrel.Eq{"supervisor_id": ids}).
		OrderBy("assigned_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build supervisor students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying supervisor students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var supervisorID, studentID string
		if err := rows.Scan(&supervisorID, &studentID); err != nil {
			return fmt.Errorf("error scanning supervisor student row: %w", err)
		}
		sup := bySupervisor[supervisorID].Supervisor
		sup.Students = append(sup.Students, studentID)
	}
	return rows.Err()
}

// GetByIDs retrieves the users that exist among ids, keyed by id
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return result, nil
	}

	users, err := r.list(ctx, squirrel.Eq{"id": valid})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// List retrieves users with role, or all users when role is empty
func (r *UserRepository) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	if role == "" {
		return r.list(ctx, nil)
	}
	return r.list(ctx, squirrel.Eq{"role": string(role)})
}

// UpdateProfile writes the editable profile fields of user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	if !validID(user.ID) {
		return apperrors.ErrUserNotFound
	}

	user.UpdatedAt = time.Now().UTC()
	fields := map[string]interface{}{
		"name":       user.Name,
		"email":      user.Email,
		"contact":    user.Contact,
		"department": user.Department,
		"bio":        user.Bio,
		"picture":    user.Picture,
		"updated_at": user.UpdatedAt,
	}
	if user.Student != nil {
		fields["year"] = user.Student.Year
	}
	if user.Supervisor != nil {
		fields["staff_id"] = nullableString(user.Supervisor.StaffID)
	}

	sql, args, err := r.sb.Update("users").SetMap(fields).Where(squirrel.Eq{"id": user.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating user: %w", translateWriteError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Assignments and projects go with it through foreign key cascades.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.ErrUserNotFound
	}

	sql, args, err := r.sb.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", id).Msg("Error executing delete user query")
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// AddStudentToSupervisor records the assignment; repeating it is a no-op
func (r *UserRepository) AddStudentToSupervisor(ctx context.Context, supervisorID, studentID string) error {
	if !validID(supervisorID) {
		return apperrors.ErrSupervisorNotFound
	}
	if !validID(studentID) {
		return apperrors.ErrStudentNotFound
	}

	sql, args, err := r.sb.Insert("supervisor_students").
		Columns("supervisor_id", "student_id").
		Values(supervisorID, studentID).
		Suffix("ON CONFLICT (supervisor_id, student_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error assigning student: %w", err)
	}
	return nil
}

// RemoveStudentFromSupervisors drops studentID from every supervisor's list
func (r *UserRepository) RemoveStudentFromSupervisors(ctx context.Context, studentID string) error {
	if !validID(studentID) {
		return nil
	}

	sql, args, err := r.sb.Delete("supervisor_students").Where(squirrel.Eq{"student_id": studentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove student query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing student from supervisors: %w", err)
	}
	return nil
}

// CountByRole counts users with role
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role": string(role)}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}
