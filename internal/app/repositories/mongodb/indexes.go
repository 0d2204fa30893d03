package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/projecttracker/internal/app/repositories"
)

// NewRepositories creates the MongoDB-backed repositories
func NewRepositories(db *mongo.Database) *repositories.Repositories {
	return &repositories.Repositories{
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
	}
}

// EnsureIndexes creates the unique and lookup indexes. It is safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index().SetName(studentIDIndex).SetUnique(true).
				SetPartialFilterExpression(bson.M{"studentId": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "staffId", Value: 1}},
			Options: options.Index().SetName(staffIDIndex).SetUnique(true).
				SetPartialFilterExpression(bson.M{"staffId": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role_idx"),
		},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	projectIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("student_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "supervisorId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("supervisor_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_idx"),
		},
	}
	if _, err := db.Collection(projectsCollection).Indexes().CreateMany(ctx, projectIndexes); err != nil {
		return fmt.Errorf("failed to create project indexes: %w", err)
	}

	return nil
}
