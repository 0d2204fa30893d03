package postgres

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
)

func TestProjectWhere(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	studentID := uuid.NewString()

	where, ok := projectWhere(repositories.ProjectFilter{Status: models.StatusPending, StudentID: studentID})
	require.True(t, ok)

	sql, args, err := sb.Select("COUNT(*)").From("projects").Where(where).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM projects WHERE (status = $1 AND student_id = $2)", sql)
	assert.Equal(t, []interface{}{"pending", studentID}, args)

	_, ok = projectWhere(repositories.ProjectFilter{SupervisorID: "6630f0c2a1b2c3d4e5f60718"})
	assert.False(t, ok, "non-uuid ids cannot match")
}

func TestProjectWhere_EmptyMatchesAll(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	where, ok := projectWhere(repositories.ProjectFilter{})
	require.True(t, ok)

	sql, args, err := sb.Select("COUNT(*)").From("projects").Where(where).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM projects WHERE (1=1)", sql)
	assert.Empty(t, args)
}
