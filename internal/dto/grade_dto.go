package dto

import (
	"time"

	"github.com/edudesk/edudesk-api/internal/models"
)

// CreateGradeRequest records component scores for a student in a class.
type CreateGradeRequest struct {
	StudentID string `json:"student_id" validate:"required,len=24,hexadecimal"`
	ClassID   string `json:"class_id" validate:"required,len=24,hexadecimal"`
	CourseID  string `json:"course_id" validate:"omitempty,len=24,hexadecimal"`

	Attendance *float64 `json:"attendance" validate:"omitempty,gte=0,lte=100"`
	Assignment *float64 `json:"assignment" validate:"omitempty,gte=0,lte=100"`
	Quiz       *float64 `json:"quiz" validate:"omitempty,gte=0,lte=100"`
	Project    *float64 `json:"project" validate:"omitempty,gte=0,lte=100"`
	Midterm    *float64 `json:"midterm" validate:"omitempty,gte=0,lte=100"`
	FinalExam  *float64 `json:"final_exam" validate:"omitempty,gte=0,lte=100"`
	ExtraExam  *float64 `json:"extra_exam" validate:"omitempty,gte=0,lte=100"`

	Term   string `json:"term" validate:"omitempty,max=30"`
	Remark string `json:"remark" validate:"omitempty,max=500"`
}

// PatchGradeRequest enumerates the updatable grade fields.
type PatchGradeRequest struct {
	Attendance *float64 `json:"attendance" validate:"omitempty,gte=0,lte=100"`
	Assignment *float64 `json:"assignment" validate:"omitempty,gte=0,lte=100"`
	Quiz       *float64 `json:"quiz" validate:"omitempty,gte=0,lte=100"`
	Project    *float64 `json:"project" validate:"omitempty,gte=0,lte=100"`
	Midterm    *float64 `json:"midterm" validate:"omitempty,gte=0,lte=100"`
	FinalExam  *float64 `json:"final_exam" validate:"omitempty,gte=0,lte=100"`
	ExtraExam  *float64 `json:"extra_exam" validate:"omitempty,gte=0,lte=100"`
	Term       *string  `json:"term" validate:"omitempty,max=30"`
	Remark     *string  `json:"remark" validate:"omitempty,max=500"`
}

// ToMap converts the patch into the update payload.
func (r PatchGradeRequest) ToMap() map[string]any {
	payload := map[string]any{}
	for key, value := range map[string]*float64{
		"attendance": r.Attendance,
		"assignment": r.Assignment,
		"quiz":       r.Quiz,
		"project":    r.Project,
		"midterm":    r.Midterm,
		"final_exam": r.FinalExam,
		"extra_exam": r.ExtraExam,
	} {
		if value != nil {
			payload[key] = *value
		}
	}
	if r.Term != nil {
		payload["term"] = *r.Term
	}
	if r.Remark != nil {
		payload["remark"] = *r.Remark
	}
	return payload
}

// GradeResponse serialises a grade with its derived fields. Total and
// letter grade are recomputed on every read, never stored.
type GradeResponse struct {
	ID          string `json:"id"`
	TeacherID   string `json:"teacher_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	ClassID     string `json:"class_id"`
	CourseID    string `json:"course_id,omitempty"`

	Attendance *float64 `json:"attendance,omitempty"`
	Assignment *float64 `json:"assignment,omitempty"`
	Quiz       *float64 `json:"quiz,omitempty"`
	Project    *float64 `json:"project,omitempty"`
	Midterm    *float64 `json:"midterm,omitempty"`
	FinalExam  *float64 `json:"final_exam,omitempty"`
	ExtraExam  *float64 `json:"extra_exam,omitempty"`

	Term        string    `json:"term,omitempty"`
	Remark      string    `json:"remark,omitempty"`
	Total       float64   `json:"total"`
	LetterGrade string    `json:"letter_grade"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewGradeResponse converts a grade model into a response DTO.
func NewGradeResponse(grade models.Grade) GradeResponse {
	resp := GradeResponse{
		ID:          grade.ID.Hex(),
		TeacherID:   grade.TeacherID.Hex(),
		StudentID:   grade.StudentID.Hex(),
		StudentName: grade.StudentName,
		ClassID:     grade.ClassID.Hex(),
		Attendance:  grade.Attendance,
		Assignment:  grade.Assignment,
		Quiz:        grade.Quiz,
		Project:     grade.Project,
		Midterm:     grade.Midterm,
		FinalExam:   grade.FinalExam,
		ExtraExam:   grade.ExtraExam,
		Term:        grade.Term,
		Remark:      grade.Remark,
		Total:       grade.Total(),
		LetterGrade: grade.LetterGrade(),
		CreatedAt:   grade.CreatedAt,
	}
	if !grade.CourseID.IsZero() {
		resp.CourseID = grade.CourseID.Hex()
	}
	return resp
}
