// Package memory keeps users and projects in process memory. It backs the service
// and HTTP test suites with the same contract as the database implementations.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// Store is the shared state behind both repositories
type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	projects map[string]*models.Project
	order    map[string]int64
	seq      int64
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		projects: make(map[string]*models.Project),
		order:    make(map[string]int64),
		now:      time.Now,
	}
}

// NewRepositories returns repositories backed by a fresh store
func NewRepositories() *repositories.Repositories {
	store := NewStore()
	return &repositories.Repositories{
		Users:    &UserRepository{store: store},
		Projects: &ProjectRepository{store: store},
	}
}

func (s *Store) nextID() string {
	s.seq++
	return uuid.NewString()
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Student != nil {
		sp := *u.Student
		c.Student = &sp
	}
	if u.Supervisor != nil {
		sp := *u.Supervisor
		sp.Students = append([]string{}, u.Supervisor.Students...)
		c.Supervisor = &sp
	}
	return &c
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	if p.DueDate != nil {
		d := *p.DueDate
		c.DueDate = &d
	}
	return &c
}

// UserRepository is the in-memory users collection
type UserRepository struct {
	store *Store
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// checkUnique reports the first unique field of u already used by another user
func (r *UserRepository) checkUnique(u *models.User) error {
	for id, other := range r.store.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return apperrors.NewDuplicateError("email")
		}
		if u.Student != nil && other.Student != nil && other.Student.StudentID == u.Student.StudentID {
			return apperrors.NewDuplicateError("studentId")
		}
		if u.Supervisor != nil && other.Supervisor != nil && u.Supervisor.StaffID != "" &&
			other.Supervisor.StaffID == u.Supervisor.StaffID {
			return apperrors.NewDuplicateError("staffId")
		}
	}
	return nil
}

// Create stores a new user and assigns its id and timestamps
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.checkUnique(user); err != nil {
		return err
	}

	now := r.store.now()
	user.ID = r.store.nextID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Supervisor != nil && user.Supervisor.Students == nil {
		user.Supervisor.Students = []string{}
	}

	r.store.users[user.ID] = cloneUser(user)
	r.store.order[user.ID] = r.store.seq
	return nil
}

// GetByID returns a user by id
func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByIDs returns the users that exist among ids, keyed by id
func (r *UserRepository) GetByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			result[id] = cloneUser(u)
		}
	}
	return result, nil
}

// List returns users with the given role, or all users when role is empty
func (r *UserRepository) List(_ context.Context, role models.Role) ([]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*models.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		if role == "" || u.Role == role {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return r.store.order[users[i].ID] < r.store.order[users[j].ID]
	})
	return users, nil
}

// UpdateProfile writes the editable profile fields of user
func (r *UserRepository) UpdateProfile(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}

	current.Name = user.Name
	current.Email = user.Email
	current.Contact = user.Contact
	current.Department = user.Department
	current.Bio = user.Bio
	current.Picture = user.Picture
	if current.Student != nil && user.Student != nil {
		current.Student.Year = user.Student.Year
	}
	if current.Supervisor != nil && user.Supervisor != nil {
		current.Supervisor.StaffID = user.Supervisor.StaffID
	}
	current.UpdatedAt = r.store.now()
	user.UpdatedAt = current.UpdatedAt
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.store.users, id)
	delete(r.store.order, id)
	return nil
}

// GetByEmail returns the user registered with email
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return false, nil
	}
	return false, err
}

// AddStudentToSupervisor appends studentID to the supervisor's list unless present
func (r *UserRepository) AddStudentToSupervisor(_ context.Context, supervisorID, studentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sup, ok := r.store.users[supervisorID]
	if !ok || sup.Supervisor == nil {
		return apperrors.ErrSupervisorNotFound
	}
	if !sup.Supervisor.HasStudent(studentID) {
		sup.Supervisor.Students = append(sup.Supervisor.Students, studentID)
		sup.UpdatedAt = r.store.now()
	}
	return nil
}

// RemoveStudentFromSupervisors drops studentID from every supervisor's list
func (r *UserRepository) RemoveStudentFromSupervisors(_ context.Context, studentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Supervisor == nil || !u.Supervisor.HasStudent(studentID) {
			continue
		}
		kept := u.Supervisor.Students[:0]
		for _, id := range u.Supervisor.Students {
			if id != studentID {
				kept = append(kept, id)
			}
		}
		u.Supervisor.Students = kept
	}
	return nil
}

// CountByRole counts users with role
func (r *UserRepository) CountByRole(_ context.Context, role models.Role) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, u := range r.store.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ProjectRepository is the in-memory projects collection
type ProjectRepository struct {
	store *Store
}

var _ repositories.ProjectRepository = (*ProjectRepository)(nil)

func matches(p *models.Project, f repositories.ProjectFilter) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.StudentID != "" && p.StudentID != f.StudentID {
		return false
	}
	if f.SupervisorID != "" && p.SupervisorID != f.SupervisorID {
		return false
	}
	return true
}

// Create stores a new project and assigns its id and timestamps
func (r *ProjectRepository) Create(_ context.Context, project *models.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	project.ID = r.store.nextID()
	project.CreatedAt = now
	project.UpdatedAt = now

	r.store.projects[project.ID] = cloneProject(project)
	r.store.order[project.ID] = r.store.seq
	return nil
}

// GetByID returns a project by id
func (r *ProjectRepository) GetByID(_ context.Context, id string) (*models.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

// List returns the projects matching filter, newest first
func (r *ProjectRepository) List(_ context.Context, filter repositories.ProjectFilter) ([]*models.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	projects := make([]*models.Project, 0)
	for _, p := range r.store.projects {
		if matches(p, filter) {
			projects = append(projects, cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return r.store.order[projects[i].ID] > r.store.order[projects[j].ID]
	})
	return projects, nil
}

// Update writes the mutable fields of project
func (r *ProjectRepository) Update(_ context.Context, project *models.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.projects[project.ID]
	if !ok {
		return apperrors.ErrProjectNotFound
	}

	project.UpdatedAt = r.store.now()
	updated := cloneProject(project)
	updated.StudentID = current.StudentID
	updated.SupervisorID = current.SupervisorID
	updated.CreatedAt = current.CreatedAt
	r.store.projects[project.ID] = updated
	return nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.projects[id]; !ok {
		return apperrors.ErrProjectNotFound
	}
	delete(r.store.projects, id)
	delete(r.store.order, id)
	return nil
}

func (r *ProjectRepository) deleteWhere(filter repositories.ProjectFilter) int64 {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, p := range r.store.projects {
		if matches(p, filter) {
			delete(r.store.projects, id)
			delete(r.store.order, id)
			n++
		}
	}
	return n
}

// DeleteByStudent removes every project owned by studentID
func (r *ProjectRepository) DeleteByStudent(_ context.Context, studentID string) (int64, error) {
	if studentID == "" {
		return 0, nil
	}
	return r.deleteWhere(repositories.ProjectFilter{StudentID: studentID}), nil
}

// DeleteBySupervisor removes every project supervised by supervisorID
func (r *ProjectRepository) DeleteBySupervisor(_ context.Context, supervisorID string) (int64, error) {
	if supervisorID == "" {
		return 0, nil
	}
	return r.deleteWhere(repositories.ProjectFilter{SupervisorID: supervisorID}), nil
}

// Count counts the projects matching filter
func (r *ProjectRepository) Count(_ context.Context, filter repositories.ProjectFilter) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, p := range r.store.projects {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}
