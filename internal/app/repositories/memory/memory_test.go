package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

func TestUserRepository_UniqueFields(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	first := &models.User{Name: "Ada", Email: "ada@uni.edu", Role: models.RoleStudent,
		Student: &models.StudentProfile{Year: 2, StudentID: 100}}
	require.NoError(t, repos.Users.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	tests := []struct {
		name  string
		user  *models.User
		field string
	}{
		{
			name: "duplicate email",
			user: &models.User{Name: "Bob", Email: "ada@uni.edu", Role: models.RoleSupervisor,
				Supervisor: &models.SupervisorProfile{}},
			field: "email",
		},
		{
			name: "duplicate student number",
			user: &models.User{Name: "Cy", Email: "cy@uni.edu", Role: models.RoleStudent,
				Student: &models.StudentProfile{Year: 1, StudentID: 100}},
			field: "studentId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repos.Users.Create(ctx, tt.user)
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}

	// Empty staff ids never collide.
	for _, email := range []string{"s1@uni.edu", "s2@uni.edu"} {
		require.NoError(t, repos.Users.Create(ctx, &models.User{Name: "Sup", Email: email,
			Role: models.RoleSupervisor, Supervisor: &models.SupervisorProfile{}}))
	}
}

func TestUserRepository_AssignmentList(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	sup := &models.User{Name: "Sup", Email: "sup@uni.edu", Role: models.RoleSupervisor,
		Supervisor: &models.SupervisorProfile{}}
	require.NoError(t, repos.Users.Create(ctx, sup))

	require.NoError(t, repos.Users.AddStudentToSupervisor(ctx, sup.ID, "stu-1"))
	require.NoError(t, repos.Users.AddStudentToSupervisor(ctx, sup.ID, "stu-1"))
	require.NoError(t, repos.Users.AddStudentToSupervisor(ctx, sup.ID, "stu-2"))

	got, err := repos.Users.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1", "stu-2"}, got.Supervisor.Students)

	require.NoError(t, repos.Users.RemoveStudentFromSupervisors(ctx, "stu-1"))
	got, err = repos.Users.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-2"}, got.Supervisor.Students)

	err = repos.Users.AddStudentToSupervisor(ctx, "missing", "stu-1")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestProjectRepository_FiltersAndCascade(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	seed := []*models.Project{
		{Title: "P1", StudentID: "s1", SupervisorID: "v1", Status: models.StatusPending},
		{Title: "P2", StudentID: "s1", SupervisorID: "v2", Status: models.StatusApproved},
		{Title: "P3", StudentID: "s2", SupervisorID: "v1", Status: models.StatusRejected},
	}
	for _, p := range seed {
		require.NoError(t, repos.Projects.Create(ctx, p))
	}

	all, err := repos.Projects.List(ctx, repositories.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "P3", all[0].Title, "newest first")

	byStudent, err := repos.Projects.List(ctx, repositories.ProjectFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	n, err := repos.Projects.Count(ctx, repositories.ProjectFilter{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	deleted, err := repos.Projects.DeleteBySupervisor(ctx, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = repos.Projects.DeleteByStudent(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = repos.Projects.GetByID(ctx, seed[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestProjectRepository_UpdateKeepsParties(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	p := &models.Project{Title: "P1", StudentID: "s1", SupervisorID: "v1", Status: models.StatusPending}
	require.NoError(t, repos.Projects.Create(ctx, p))

	changed := *p
	changed.Title = "Renamed"
	changed.StudentID = "intruder"
	require.NoError(t, repos.Projects.Update(ctx, &changed))

	got, err := repos.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "s1", got.StudentID)
}
