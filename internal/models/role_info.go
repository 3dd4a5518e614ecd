package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleItem is a single teaching slot on a teacher's timetable.
type ScheduleItem struct {
	Day     string `bson:"day" json:"day"`
	Time    string `bson:"time" json:"time"`
	Subject string `bson:"subject" json:"subject"`
	ClassID string `bson:"class_id,omitempty" json:"class_id,omitempty"`
}

// TeacherInfo is the satellite record for teacher accounts. It shares its
// _id with the owning user document.
type TeacherInfo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID  string             `bson:"employee_id,omitempty" json:"employee_id,omitempty"`
	PhoneNumber string             `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	Subjects    []string           `bson:"subjects" json:"subjects"`
	Schedule    []ScheduleItem     `bson:"schedule,omitempty" json:"schedule,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NewMinimalTeacherInfo builds the empty satellite inserted at user creation.
func NewMinimalTeacherInfo(id primitive.ObjectID) TeacherInfo {
	return TeacherInfo{ID: id, Subjects: []string{}}
}

// Course is one course a student is taking, with an optional score.
type Course struct {
	Name  string   `bson:"name" json:"name"`
	Score *float64 `bson:"score,omitempty" json:"score,omitempty"`
}

// StudentInfo is the satellite record for student accounts. AttendanceRecord
// maps calendar dates to a status string and is always replaced wholesale on
// update, never merged per key.
type StudentInfo struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID         string             `bson:"school_id,omitempty" json:"school_id,omitempty"`
	Grade            string             `bson:"grade,omitempty" json:"grade,omitempty"`
	Major            string             `bson:"major,omitempty" json:"major,omitempty"`
	GPA              float64            `bson:"gpa,omitempty" json:"gpa,omitempty"`
	BirthDate        *time.Time         `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	EnrolledClasses  []string           `bson:"enrolled_classes" json:"enrolled_classes"`
	Courses          []Course           `bson:"courses" json:"courses"`
	AttendanceRecord map[string]string  `bson:"attendance_record" json:"attendance_record"`
	UpdatedAt        time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NewMinimalStudentInfo builds the empty satellite inserted at user creation.
func NewMinimalStudentInfo(id primitive.ObjectID) StudentInfo {
	return StudentInfo{
		ID:               id,
		EnrolledClasses:  []string{},
		Courses:          []Course{},
		AttendanceRecord: map[string]string{},
	}
}

// AdminInfo is the satellite record for admin accounts, a bare identifier
// record with room to grow.
type AdminInfo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// UserDetail joins the primary profile with its role satellite. Exactly one
// of the satellite pointers is set, matching the profile's role.
type UserDetail struct {
	Profile     User         `json:"profile"`
	TeacherInfo *TeacherInfo `json:"teacher_info,omitempty"`
	StudentInfo *StudentInfo `json:"student_info,omitempty"`
	AdminInfo   *AdminInfo   `json:"admin_info,omitempty"`
}
