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
	"github.com/yigit/projecttracker/internal/pkg/dberrors"
)

// UserRepository handles user-related database operations
type UserRepository struct {
	users *mongo.Collection
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(usersCollection)}
}

// translateWriteError converts duplicate key failures into field validation errors
func translateWriteError(err error) error {
	if field, ok := dberrors.MongoDuplicateField(err, uniqueIndexFields); ok {
		return apperrors.NewDuplicateError(field)
	}
	return err
}

// Create inserts a new user and sets its id and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	if user.Supervisor != nil && user.Supervisor.Students == nil {
		user.Supervisor.Students = []string{}
	}

	res, err := r.users.InsertOne(ctx, newUserDocument(user))
	if err != nil {
		return fmt.Errorf("error creating user: %w", translateWriteError(err))
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return doc.toModel(), nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByIDs retrieves the users that exist among ids, keyed by id
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return result, nil
	}

	users, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

// List retrieves users with role, or all users when role is empty
func (r *UserRepository) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = string(role)
	}
	return r.find(ctx, filter)
}

// UpdateProfile writes the editable profile fields. Empty optional fields are unset.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	user.UpdatedAt = now()
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"updatedAt": user.UpdatedAt,
	}
	unset := bson.M{}

	optional := map[string]string{
		"contact":    user.Contact,
		"department": user.Department,
		"bio":        user.Bio,
		"picture":    user.Picture,
	}
	if user.Supervisor != nil {
		optional["staffId"] = user.Supervisor.StaffID
	}
	for field, value := range optional {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}
	if user.Student != nil {
		set["year"] = user.Student.Year
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("error updating user: %w", translateWriteError(err))
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return n > 0, nil
}

// AddStudentToSupervisor adds studentID to the supervisor's list. $addToSet keeps it idempotent.
func (r *UserRepository) AddStudentToSupervisor(ctx context.Context, supervisorID, studentID string) error {
	supOID, err := primitive.ObjectIDFromHex(supervisorID)
	if err != nil {
		return apperrors.ErrSupervisorNotFound
	}
	stuOID, err := primitive.ObjectIDFromHex(studentID)
	if err != nil {
		return apperrors.ErrStudentNotFound
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": supOID, "role": string(models.RoleSupervisor)},
		bson.M{
			"$addToSet": bson.M{"students": stuOID},
			"$set":      bson.M{"updatedAt": now()},
		})
	if err != nil {
		return fmt.Errorf("error assigning student: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrSupervisorNotFound
	}
	return nil
}

// RemoveStudentFromSupervisors pulls studentID from every supervisor's list
func (r *UserRepository) RemoveStudentFromSupervisors(ctx context.Context, studentID string) error {
	oid, err := primitive.ObjectIDFromHex(studentID)
	if err != nil {
		return nil
	}

	_, err = r.users.UpdateMany(ctx,
		bson.M{"role": string(models.RoleSupervisor), "students": oid},
		bson.M{"$pull": bson.M{"students": oid}})
	if err != nil {
		return fmt.Errorf("error removing student from supervisors: %w", err)
	}
	return nil
}

// CountByRole counts users with role
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}
