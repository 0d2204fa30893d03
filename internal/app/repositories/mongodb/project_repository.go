package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// ProjectRepository handles project-related database operations
type ProjectRepository struct {
	projects *mongo.Collection
}

var _ repositories.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{projects: db.Collection(projectsCollection)}
}

// buildFilter converts f into a query. ok is false when f references a malformed
// id and therefore cannot match any document.
func buildFilter(f repositories.ProjectFilter) (filter bson.M, ok bool) {
	filter = bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.StudentID != "" {
		oid, err := primitive.ObjectIDFromHex(f.StudentID)
		if err != nil {
			return nil, false
		}
		filter["studentId"] = oid
	}
	if f.SupervisorID != "" {
		oid, err := primitive.ObjectIDFromHex(f.SupervisorID)
		if err != nil {
			return nil, false
		}
		filter["supervisorId"] = oid
	}
	return filter, true
}

// Create inserts a new project and sets its id and timestamps
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	studentID, err := primitive.ObjectIDFromHex(project.StudentID)
	if err != nil {
		return apperrors.ErrStudentNotFound
	}
	supervisorID, err := primitive.ObjectIDFromHex(project.SupervisorID)
	if err != nil {
		return apperrors.ErrSupervisorNotFound
	}

	ts := now()
	project.CreatedAt = ts
	project.UpdatedAt = ts

	doc := projectDocument{
		Title:         project.Title,
		Description:   project.Description,
		Proposal:      project.Proposal,
		Status:        string(project.Status),
		StudentID:     studentID,
		SupervisorID:  supervisorID,
		Documentation: project.Documentation,
		DueDate:       project.DueDate,
		Feedback:      project.Feedback,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	res, err := r.projects.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	project.ID = oid.Hex()
	return nil
}

// GetByID retrieves a project by id
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrProjectNotFound
	}

	var doc projectDocument
	if err := r.projects.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	return doc.toModel(), nil
}

// List retrieves the projects matching filter, newest first
func (r *ProjectRepository) List(ctx context.Context, f repositories.ProjectFilter) ([]*models.Project, error) {
	projects := make([]*models.Project, 0)
	filter, ok := buildFilter(f)
	if !ok {
		return projects, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.projects.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc projectDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding project: %w", err)
		}
		projects = append(projects, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// Update writes the mutable project fields. Student and supervisor never change.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	oid, err := primitive.ObjectIDFromHex(project.ID)
	if err != nil {
		return apperrors.ErrProjectNotFound
	}

	project.UpdatedAt = now()
	set := bson.M{
		"title":         project.Title,
		"description":   project.Description,
		"proposal":      project.Proposal,
		"status":        string(project.Status),
		"documentation": project.Documentation,
		"feedback":      project.Feedback,
		"updatedAt":     project.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if project.DueDate != nil {
		set["dueDate"] = project.DueDate.UTC()
	} else {
		update["$unset"] = bson.M{"dueDate": ""}
	}

	res, err := r.projects.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("error updating project: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrProjectNotFound
	}

	res, err := r.projects.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) deleteByParty(ctx context.Context, field, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	res, err := r.projects.DeleteMany(ctx, bson.M{field: oid})
	if err != nil {
		return 0, fmt.Errorf("error deleting projects by %s: %w", field, err)
	}
	return res.DeletedCount, nil
}

// DeleteByStudent removes every project owned by studentID
func (r *ProjectRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	return r.deleteByParty(ctx, "studentId", studentID)
}

// DeleteBySupervisor removes every project supervised by supervisorID
func (r *ProjectRepository) DeleteBySupervisor(ctx context.Context, supervisorID string) (int64, error) {
	return r.deleteByParty(ctx, "supervisorId", supervisorID)
}

// Count counts the projects matching filter
func (r *ProjectRepository) Count(ctx context.Context, f repositories.ProjectFilter) (int64, error) {
	filter, ok := buildFilter(f)
	if !ok {
		return 0, nil
	}

	n, err := r.projects.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting projects: %w", err)
	}
	return n, nil
}
