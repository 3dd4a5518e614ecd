package dto

import "github.com/edudesk/edudesk-api/internal/models"

// CreateClassRequest is one class in a creation batch.
type CreateClassRequest struct {
	CourseCode  string                `json:"course_code" validate:"required,min=1,max=20"`
	CourseTitle string                `json:"course_title" validate:"required,min=1,max=200"`
	Lecturer    string                `json:"lecturer" validate:"required,min=1,max=100"`
	Email       string                `json:"email" validate:"omitempty,email"`
	PhoneNumber string                `json:"phone_number" validate:"omitempty,max=30"`
	Hybrid      bool                  `json:"hybrid"`
	Schedule    []models.ScheduleItem `json:"schedule"`
	Credits     int                   `json:"credits" validate:"omitempty,gte=0,lte=30"`
	Department  string                `json:"department" validate:"omitempty,max=100"`
	Description string                `json:"description" validate:"omitempty,max=2000"`
	Year        int                   `json:"year" validate:"omitempty,gte=2000"`
	MaxStudents int                   `json:"max_students" validate:"omitempty,gte=1,lte=500"`
}

// PatchClassRequest enumerates the updatable class metadata fields.
type PatchClassRequest struct {
	CourseTitle *string               `json:"course_title" validate:"omitempty,min=1,max=200"`
	Lecturer    *string               `json:"lecturer" validate:"omitempty,min=1,max=100"`
	Email       *string               `json:"email" validate:"omitempty,email"`
	PhoneNumber *string               `json:"phone_number" validate:"omitempty,max=30"`
	Hybrid      *bool                 `json:"hybrid"`
	Schedule    []models.ScheduleItem `json:"schedule"`
	Credits     *int                  `json:"credits" validate:"omitempty,gte=0,lte=30"`
	Department  *string               `json:"department" validate:"omitempty,max=100"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	MaxStudents *int                  `json:"max_students" validate:"omitempty,gte=1,lte=500"`
}

// ToMap converts the patch into a nested update payload rooted at the
// class_info sub-document.
func (r PatchClassRequest) ToMap() map[string]any {
	info := map[string]any{}
	if r.CourseTitle != nil {
		info["course_title"] = *r.CourseTitle
	}
	if r.Lecturer != nil {
		info["lecturer"] = *r.Lecturer
	}
	if r.Email != nil {
		info["email"] = *r.Email
	}
	if r.PhoneNumber != nil {
		info["phone_number"] = *r.PhoneNumber
	}
	if r.Hybrid != nil {
		info["hybrid"] = *r.Hybrid
	}
	if r.Schedule != nil {
		info["schedule"] = r.Schedule
	}
	if r.Credits != nil {
		info["credits"] = *r.Credits
	}
	if r.Department != nil {
		info["department"] = *r.Department
	}
	if r.Description != nil {
		info["description"] = *r.Description
	}

	payload := map[string]any{}
	if len(info) > 0 {
		payload["class_info"] = info
	}
	if r.MaxStudents != nil {
		payload["max_students"] = *r.MaxStudents
	}
	return payload
}

// EnrollRequest adds or removes one student from a class roster.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required,len=24,hexadecimal"`
}
