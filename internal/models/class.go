package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassInfo holds the descriptive metadata of a class.
type ClassInfo struct {
	CourseCode  string         `bson:"course_code" json:"course_code"`
	CourseTitle string         `bson:"course_title" json:"course_title"`
	Lecturer    string         `bson:"lecturer" json:"lecturer"`
	Email       string         `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string         `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	Hybrid      bool           `bson:"hybrid" json:"hybrid"`
	Schedule    []ScheduleItem `bson:"schedule,omitempty" json:"schedule,omitempty"`
	Credits     int            `bson:"credits,omitempty" json:"credits,omitempty"`
	Department  string         `bson:"department,omitempty" json:"department,omitempty"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Year        int            `bson:"year,omitempty" json:"year,omitempty"`
}

// Class is a teachable unit with an enrolled-student set and an append-only
// history of mutation timestamps.
type Class struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ClassInfo        ClassInfo            `bson:"class_info" json:"class_info"`
	CreatedBy        primitive.ObjectID   `bson:"created_by,omitempty" json:"created_by,omitempty"`
	StudentsEnrolled []primitive.ObjectID `bson:"students_enrolled" json:"students_enrolled"`
	MaxStudents      int                  `bson:"max_students" json:"max_students"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdateHistory    []time.Time          `bson:"update_history" json:"update_history"`
}

// IsEnrolled reports whether the student is already in the enrolled set.
func (c Class) IsEnrolled(studentID primitive.ObjectID) bool {
	for _, id := range c.StudentsEnrolled {
		if id == studentID {
			return true
		}
	}
	return false
}

// IsFull reports whether enrollment reached the class capacity.
func (c Class) IsFull() bool {
	return c.MaxStudents > 0 && len(c.StudentsEnrolled) >= c.MaxStudents
}
