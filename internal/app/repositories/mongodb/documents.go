// Package mongodb implements the repositories on a MongoDB database. Users of every
// role share one collection discriminated by the role field.
package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/projecttracker/internal/app/models"
)

const (
	usersCollection    = "users"
	projectsCollection = "projects"
)

// Unique index names, mapped onto the API field they protect
const (
	emailIndex     = "email_unique"
	studentIDIndex = "student_id_unique"
	staffIDIndex   = "staff_id_unique"
)

var uniqueIndexFields = map[string]string{
	emailIndex:     "email",
	studentIDIndex: "studentId",
	staffIDIndex:   "staffId",
}

// userDocument is the stored shape of a user. Role-specific fields are absent for
// other roles so the partial unique indexes skip them.
type userDocument struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Name       string               `bson:"name"`
	Email      string               `bson:"email"`
	Password   string               `bson:"password"`
	Role       string               `bson:"role"`
	Contact    string               `bson:"contact,omitempty"`
	Department string               `bson:"department,omitempty"`
	Bio        string               `bson:"bio,omitempty"`
	Picture    string               `bson:"picture,omitempty"`
	Year       *int                 `bson:"year,omitempty"`
	StudentID  *int64               `bson:"studentId,omitempty"`
	StaffID    *string              `bson:"staffId,omitempty"`
	Students   []primitive.ObjectID `bson:"students,omitempty"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

func newUserDocument(u *models.User) *userDocument {
	doc := &userDocument{
		Name:       u.Name,
		Email:      u.Email,
		Password:   u.Password,
		Role:       string(u.Role),
		Contact:    u.Contact,
		Department: u.Department,
		Bio:        u.Bio,
		Picture:    u.Picture,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}

	if u.Student != nil {
		year, studentID := u.Student.Year, u.Student.StudentID
		doc.Year = &year
		doc.StudentID = &studentID
	}
	if u.Supervisor != nil {
		if u.Supervisor.StaffID != "" {
			staffID := u.Supervisor.StaffID
			doc.StaffID = &staffID
		}
		doc.Students = objectIDs(u.Supervisor.Students)
	}

	return doc
}

func (d *userDocument) toModel() *models.User {
	u := &models.User{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Email:      d.Email,
		Password:   d.Password,
		Role:       models.Role(d.Role),
		Contact:    d.Contact,
		Department: d.Department,
		Bio:        d.Bio,
		Picture:    d.Picture,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}

	switch u.Role {
	case models.RoleStudent:
		u.Student = &models.StudentProfile{}
		if d.Year != nil {
			u.Student.Year = *d.Year
		}
		if d.StudentID != nil {
			u.Student.StudentID = *d.StudentID
		}
	case models.RoleSupervisor:
		u.Supervisor = &models.SupervisorProfile{Students: make([]string, 0, len(d.Students))}
		if d.StaffID != nil {
			u.Supervisor.StaffID = *d.StaffID
		}
		for _, id := range d.Students {
			u.Supervisor.Students = append(u.Supervisor.Students, id.Hex())
		}
	}

	return u
}

type projectDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Proposal      string             `bson:"proposal"`
	Status        string             `bson:"status"`
	StudentID     primitive.ObjectID `bson:"studentId"`
	SupervisorID  primitive.ObjectID `bson:"supervisorId"`
	Documentation string             `bson:"documentation,omitempty"`
	DueDate       *time.Time         `bson:"dueDate,omitempty"`
	Feedback      string             `bson:"feedback,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *projectDocument) toModel() *models.Project {
	return &models.Project{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		Proposal:      d.Proposal,
		Status:        models.ProjectStatus(d.Status),
		StudentID:     d.StudentID.Hex(),
		SupervisorID:  d.SupervisorID.Hex(),
		Documentation: d.Documentation,
		DueDate:       d.DueDate,
		Feedback:      d.Feedback,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// objectIDs converts hex ids, skipping malformed ones
func objectIDs(ids []string) []primitive.ObjectID {
	result := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			result = append(result, oid)
		}
	}
	return result
}

// now returns the current time at the millisecond precision BSON dates keep
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
