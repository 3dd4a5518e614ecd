package dto

import (
	"time"

	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// CreateUserRequest is the payload for registering a new user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
}

// PatchUserRequest enumerates the updatable fields of the primary user
// document. Absent pointers leave the stored value untouched.
type PatchUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// ToMap converts the patch into the update payload consumed by the
// safe-update pipeline. Only provided fields appear.
func (r PatchUserRequest) ToMap() map[string]any {
	payload := map[string]any{}
	if r.Username != nil {
		payload["username"] = *r.Username
	}
	if r.Email != nil {
		payload["email"] = *r.Email
	}
	if r.Password != nil {
		payload["password"] = *r.Password
	}
	return payload
}

// StudentInfoPatch is the updatable nested shape of a student satellite.
// AttendanceRecord, when present, replaces the stored map wholesale.
type StudentInfoPatch struct {
	SchoolID         *string               `json:"school_id" validate:"omitempty,max=50"`
	Grade            *string               `json:"grade" validate:"omitempty,max=20"`
	Major            *string               `json:"major" validate:"omitempty,max=100"`
	GPA              *float64              `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	BirthDate        *string               `json:"birth_date"`
	EnrolledClasses  []string              `json:"enrolled_classes"`
	Courses          []models.Course       `json:"courses"`
	AttendanceRecord map[string]string     `json:"attendance_record"`
}

// ToMap converts the patch into a nested update payload.
func (p StudentInfoPatch) ToMap() map[string]any {
	payload := map[string]any{}
	if p.SchoolID != nil {
		payload["school_id"] = *p.SchoolID
	}
	if p.Grade != nil {
		payload["grade"] = *p.Grade
	}
	if p.Major != nil {
		payload["major"] = *p.Major
	}
	if p.GPA != nil {
		payload["gpa"] = *p.GPA
	}
	if p.BirthDate != nil {
		payload["birth_date"] = *p.BirthDate
	}
	if p.EnrolledClasses != nil {
		payload["enrolled_classes"] = p.EnrolledClasses
	}
	if p.Courses != nil {
		payload["courses"] = p.Courses
	}
	if p.AttendanceRecord != nil {
		record := map[string]any{}
		for day, status := range p.AttendanceRecord {
			record[day] = status
		}
		payload["attendance_record"] = record
	}
	return payload
}

// TeacherInfoPatch is the updatable nested shape of a teacher satellite.
type TeacherInfoPatch struct {
	EmployeeID  *string               `json:"employee_id" validate:"omitempty,max=50"`
	PhoneNumber *string               `json:"phone_number" validate:"omitempty,max=30"`
	Subjects    []string              `json:"subjects"`
	Schedule    []models.ScheduleItem `json:"schedule"`
}

// ToMap converts the patch into a nested update payload.
func (p TeacherInfoPatch) ToMap() map[string]any {
	payload := map[string]any{}
	if p.EmployeeID != nil {
		payload["employee_id"] = *p.EmployeeID
	}
	if p.PhoneNumber != nil {
		payload["phone_number"] = *p.PhoneNumber
	}
	if p.Subjects != nil {
		payload["subjects"] = p.Subjects
	}
	if p.Schedule != nil {
		schedule := make([]any, 0, len(p.Schedule))
		for _, item := range p.Schedule {
			schedule = append(schedule, map[string]any{
				"day":      item.Day,
				"time":     item.Time,
				"subject":  item.Subject,
				"class_id": item.ClassID,
			})
		}
		payload["schedule"] = schedule
	}
	return payload
}

// PatchUserDetailRequest updates the role-satellite part of a user
// aggregate. The service rejects a satellite patch that does not match the
// user's role.
type PatchUserDetailRequest struct {
	StudentInfo *StudentInfoPatch `json:"student_info" validate:"omitempty"`
	TeacherInfo *TeacherInfoPatch `json:"teacher_info" validate:"omitempty"`
}

// UserResponse serialises a user for the boundary layer, password omitted.
type UserResponse struct {
	ID        string      `json:"id"`
	Role      models.Role `json:"role"`
	Username  string      `json:"username"`
	Email     string      `json:"email,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// NewUserResponse converts a user model into a response DTO.
func NewUserResponse(user models.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID.Hex(),
		Role:      user.Role,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if !user.UpdatedAt.IsZero() {
		t := user.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// PatchDetailResponse reports the outcome of a detail patch. Updated is
// false when the patch matched the stored state and nothing changed.
type PatchDetailResponse struct {
	Updated bool   `json:"updated"`
	Message string `json:"message"`
}

// UserGrowthResponse bundles the growth-stats series for the admin
// dashboard.
type UserGrowthResponse struct {
	Daily    []repository.DailyGrowthPoint `json:"daily"`
	ByRole   []repository.RoleGrowthPoint  `json:"by_role"`
	CacheHit bool                          `json:"cache_hit"`
}

// RoleGrowthComparison contrasts signups for one role across two windows.
type RoleGrowthComparison struct {
	Role             models.Role `json:"role"`
	Previous         int64       `json:"previous"`
	Current          int64       `json:"current"`
	GrowthPercentage float64     `json:"growth_percentage"`
}
