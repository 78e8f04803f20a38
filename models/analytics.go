package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Analytics actions recorded by the platform.
const (
	ActionUserRegister      = "user_register"
	ActionUserLogin         = "user_login"
	ActionCourseEnroll      = "course_enroll"
	ActionModuleComplete    = "module_complete"
	ActionQuizComplete      = "quiz_complete"
	ActionFeedbackSubmitted = "feedback_submitted"
	ActionSurveyCompleted   = "survey_completed"
)

// AnalyticsEvent is an immutable, append-only activity record.
type AnalyticsEvent struct {
	ID        string         `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	User      string         `gorm:"column:user_id;size:36;index;not null" bson:"user" json:"user"`
	Action    string         `gorm:"size:64;index;not null" bson:"action" json:"action"`
	Details   map[string]any `gorm:"type:text;serializer:json" bson:"details" json:"details"`
	Timestamp time.Time      `gorm:"index" bson:"timestamp" json:"timestamp"`
	SessionID string         `gorm:"size:64" bson:"sessionId,omitempty" json:"sessionId,omitempty"`
}

// TableName keeps the sql table aligned with the document collection name.
func (AnalyticsEvent) TableName() string {
	return "analytics"
}

// BeforeCreate hook ensures id and timestamp are set even when not provided.
func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return nil
}
