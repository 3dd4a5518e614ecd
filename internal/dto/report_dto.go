package dto

// CreateReportRequest files a report against an entity.
type CreateReportRequest struct {
	TargetID    string `json:"target_id" validate:"omitempty,len=24,hexadecimal"`
	TargetType  string `json:"target_type" validate:"omitempty,oneof=user class content other"`
	Reason      string `json:"reason" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=5,max=1000"`
	Severity    string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
}

// UpdateReportStatusRequest moves a report through its handling lifecycle.
type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewing resolved dismissed"`
}
