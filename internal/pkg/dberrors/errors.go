package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

// PostgresDuplicateField maps a unique violation onto the API field name using the
// constraint-to-field table. The boolean is false when err is not a unique violation.
func PostgresDuplicateField(err error, constraints map[string]string) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}
	if field, ok := constraints[pgErr.ConstraintName]; ok {
		return field, true
	}
	return pgErr.ConstraintName, true
}

// MongoDuplicateField maps an E11000 duplicate key error onto the API field name using
// the index-to-field table. The boolean is false when err is not a duplicate key error.
func MongoDuplicateField(err error, indexes map[string]string) (string, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return "", false
	}
	msg := err.Error()
	for index, field := range indexes {
		if strings.Contains(msg, "index: "+index+" ") {
			return field, true
		}
	}
	return "key", true
}
