package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grade records component scores for one (student, class, course) triple.
// Total and the letter grade are derived on read and never persisted.
type Grade struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeacherID   primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName string             `bson:"student_name,omitempty" json:"student_name,omitempty"`
	ClassID     primitive.ObjectID `bson:"class_id" json:"class_id"`
	CourseID    primitive.ObjectID `bson:"course_id,omitempty" json:"course_id,omitempty"`

	Attendance *float64 `bson:"attendance,omitempty" json:"attendance,omitempty"`
	Assignment *float64 `bson:"assignment,omitempty" json:"assignment,omitempty"`
	Quiz       *float64 `bson:"quiz,omitempty" json:"quiz,omitempty"`
	Project    *float64 `bson:"project,omitempty" json:"project,omitempty"`
	Midterm    *float64 `bson:"midterm,omitempty" json:"midterm,omitempty"`
	FinalExam  *float64 `bson:"final_exam,omitempty" json:"final_exam,omitempty"`
	ExtraExam  *float64 `bson:"extra_exam,omitempty" json:"extra_exam,omitempty"`

	Term   string `bson:"term,omitempty" json:"term,omitempty"`
	Remark string `bson:"remark,omitempty" json:"remark,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Total sums the seven components, treating absent ones as zero.
func (g Grade) Total() float64 {
	return scoreOrZero(g.Attendance) +
		scoreOrZero(g.Assignment) +
		scoreOrZero(g.Quiz) +
		scoreOrZero(g.Project) +
		scoreOrZero(g.Midterm) +
		scoreOrZero(g.FinalExam) +
		scoreOrZero(g.ExtraExam)
}

// IsPassing reports whether the total clears the passing threshold.
func (g Grade) IsPassing(passingGrade float64) bool {
	return g.Total() >= passingGrade
}

// LetterGrade maps the total onto the fixed eleven-band threshold ladder.
func (g Grade) LetterGrade() string {
	total := g.Total()
	switch {
	case total >= 97:
		return "A+"
	case total >= 93:
		return "A"
	case total >= 90:
		return "A-"
	case total >= 87:
		return "B+"
	case total >= 83:
		return "B"
	case total >= 80:
		return "B-"
	case total >= 77:
		return "C+"
	case total >= 73:
		return "C"
	case total >= 70:
		return "C-"
	case total >= 67:
		return "D+"
	case total >= 63:
		return "D"
	case total >= 60:
		return "D-"
	default:
		return "F"
	}
}
