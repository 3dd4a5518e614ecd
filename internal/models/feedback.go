package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackStatus tracks the lifecycle of a feedback entry.
type FeedbackStatus string

const (
	FeedbackStatusUnread   FeedbackStatus = "unread"
	FeedbackStatusRead     FeedbackStatus = "read"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

// Valid reports whether the status is a known value.
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackStatusUnread, FeedbackStatusRead, FeedbackStatusResolved:
		return true
	}
	return false
}

// FeedbackResponse is the optional reply attached by the receiver.
type FeedbackResponse struct {
	ResponderID primitive.ObjectID `bson:"responder_id" json:"responder_id"`
	Message     string             `bson:"message" json:"message"`
	RespondedAt time.Time          `bson:"responded_at" json:"responded_at"`
}

// Feedback is a free-text message between two users.
type Feedback struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id,omitempty" json:"receiver_id,omitempty"`
	Role       Role               `bson:"role" json:"role"`
	Category   string             `bson:"category" json:"category"`
	Message    string             `bson:"message" json:"message"`
	Status     FeedbackStatus     `bson:"status" json:"status"`
	Response   *FeedbackResponse  `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
