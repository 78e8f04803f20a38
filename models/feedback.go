package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback review states.
const (
	FeedbackPending  = "pending"
	FeedbackReviewed = "reviewed"
	FeedbackResolved = "resolved"
)

// Feedback is a user's rated comment about a course or the platform.
type Feedback struct {
	ID            string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	User          string    `gorm:"column:user_id;size:36;index;not null" bson:"user" json:"user"`
	Course        string    `gorm:"column:course_id;size:36" bson:"course,omitempty" json:"course,omitempty"`
	Type          string    `gorm:"size:16;index" bson:"type" json:"type"`
	Rating        int       `gorm:"index" bson:"rating" json:"rating"`
	Subject       string    `gorm:"size:255" bson:"subject" json:"subject"`
	Message       string    `gorm:"type:text" bson:"message" json:"message"`
	Category      string    `gorm:"size:16" bson:"category,omitempty" json:"category,omitempty"`
	IsAnonymous   bool      `bson:"isAnonymous" json:"isAnonymous"`
	Status        string    `gorm:"size:16;index" bson:"status" json:"status"`
	AdminResponse string    `gorm:"type:text" bson:"adminResponse,omitempty" json:"adminResponse,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TableName pins the sql table name.
func (Feedback) TableName() string {
	return "feedback"
}

// BeforeCreate hook ensures id and timestamps are set even when not provided.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	return nil
}
