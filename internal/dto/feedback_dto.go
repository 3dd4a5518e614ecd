package dto

// CreateFeedbackRequest submits a feedback message to another user.
type CreateFeedbackRequest struct {
	ReceiverID string `json:"receiver_id" validate:"omitempty,len=24,hexadecimal"`
	Role       string `json:"role" validate:"required,oneof=student teacher admin"`
	Category   string `json:"category" validate:"required,min=1,max=50"`
	Message    string `json:"message" validate:"required,min=5,max=1000"`
}

// RespondFeedbackRequest attaches a response to a feedback entry.
type RespondFeedbackRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

// UpdateFeedbackStatusRequest moves a feedback entry through its lifecycle.
type UpdateFeedbackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unread read resolved"`
}
