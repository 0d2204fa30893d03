package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
)

func TestUserDocument_RoleSpecificFields(t *testing.T) {
	studentOID := primitive.NewObjectID()

	sup := &models.User{
		Name:       "Grace",
		Email:      "grace@uni.edu",
		Role:       models.RoleSupervisor,
		Supervisor: &models.SupervisorProfile{Students: []string{studentOID.Hex(), "not-an-id"}},
	}
	doc := newUserDocument(sup)
	assert.Nil(t, doc.StaffID, "empty staff id must stay absent for the partial index")
	assert.Nil(t, doc.Year)
	assert.Equal(t, []primitive.ObjectID{studentOID}, doc.Students)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "staffId")
	assert.NotContains(t, fields, "studentId")
	assert.NotContains(t, fields, "_id")

	doc.ID = primitive.NewObjectID()
	back := doc.toModel()
	require.NotNil(t, back.Supervisor)
	assert.Nil(t, back.Student)
	assert.Equal(t, []string{studentOID.Hex()}, back.Supervisor.Students)
	assert.Equal(t, doc.ID.Hex(), back.ID)
}

func TestUserDocument_StudentProfile(t *testing.T) {
	doc := newUserDocument(&models.User{
		Role:    models.RoleStudent,
		Student: &models.StudentProfile{Year: 3, StudentID: 42},
	})
	require.NotNil(t, doc.Year)
	require.NotNil(t, doc.StudentID)

	back := doc.toModel()
	require.NotNil(t, back.Student)
	assert.Equal(t, 3, back.Student.Year)
	assert.EqualValues(t, 42, back.Student.StudentID)
	assert.Nil(t, back.Supervisor)
}

func TestBuildFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	filter, ok := buildFilter(repositories.ProjectFilter{Status: models.StatusApproved, StudentID: oid.Hex()})
	require.True(t, ok)
	assert.Equal(t, bson.M{"status": "approved", "studentId": oid}, filter)

	_, ok = buildFilter(repositories.ProjectFilter{SupervisorID: "xyz"})
	assert.False(t, ok)
}
