package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestPostgresDuplicateField(t *testing.T) {
	constraints := map[string]string{"users_email_key": "email"}

	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	field, ok := PostgresDuplicateField(err, constraints)
	assert.True(t, ok)
	assert.Equal(t, "email", field)
	assert.True(t, IsDuplicateConstraintError(err, "users_email_key"))

	_, ok = PostgresDuplicateField(&pgconn.PgError{Code: "23503"}, constraints)
	assert.False(t, ok)

	_, ok = PostgresDuplicateField(errors.New("boom"), constraints)
	assert.False(t, ok)
}

func TestMongoDuplicateField(t *testing.T) {
	indexes := map[string]string{"email_unique": "email", "student_id_unique": "studentId"}

	err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: uspt.users index: student_id_unique dup key: { studentId: 7 }`,
	}}}
	field, ok := MongoDuplicateField(err, indexes)
	assert.True(t, ok)
	assert.Equal(t, "studentId", field)

	_, ok = MongoDuplicateField(errors.New("boom"), indexes)
	assert.False(t, ok)
}
