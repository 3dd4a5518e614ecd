package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edudesk/edudesk-api/internal/apperr"
)

// Role identifies the kind of account a user holds.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Roles lists every known role value.
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher, RoleAdmin}
}

// Valid reports whether the role is one of the known enum values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Collection names for the primary and satellite stores.
const (
	CollectionUsers       = "users"
	CollectionTeacherInfo = "teacher_info"
	CollectionStudentInfo = "student_info"
	CollectionAdminInfo   = "admin_info"
)

var roleCollections = map[Role]string{
	RoleTeacher: CollectionTeacherInfo,
	RoleStudent: CollectionStudentInfo,
	RoleAdmin:   CollectionAdminInfo,
}

// CollectionForRole resolves the satellite collection holding role-specific
// records, so callers dispatch through a table instead of role switches.
func CollectionForRole(role Role) (string, error) {
	name, ok := roleCollections[role]
	if !ok {
		return "", apperr.BadRequest("invalid role %q", role)
	}
	return name, nil
}

// User is the primary account document. The password hash is stored in
// bson but never serialised to JSON.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role      Role               `bson:"role" json:"role"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// WithoutPassword returns a copy safe to hand to the response layer.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}
