package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportSeverity grades how serious a report is.
type ReportSeverity string

const (
	ReportSeverityLow      ReportSeverity = "low"
	ReportSeverityMedium   ReportSeverity = "medium"
	ReportSeverityHigh     ReportSeverity = "high"
	ReportSeverityCritical ReportSeverity = "critical"
)

// ReportStatus tracks the handling lifecycle of a report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Valid reports whether the status is a known value.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewing, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Report is a user-submitted complaint about another entity.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID  primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	TargetID    primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`
	TargetType  string             `bson:"target_type,omitempty" json:"target_type,omitempty"`
	Reason      string             `bson:"reason" json:"reason"`
	Description string             `bson:"description" json:"description"`
	Severity    ReportSeverity     `bson:"severity" json:"severity"`
	Status      ReportStatus       `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
