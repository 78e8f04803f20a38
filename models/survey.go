package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Survey audiences.
const (
	AudienceAll         = "all"
	AudienceStudents    = "students"
	AudienceInstructors = "instructors"
)

// SurveyQuestion is one prompt of a survey.
type SurveyQuestion struct {
	Question string   `bson:"question" json:"question" binding:"required"`
	Type     string   `bson:"type" json:"type" binding:"required,oneof=likert multiple-choice text rating"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"`
	Required bool     `bson:"required" json:"required"`
}

// Survey is a questionnaire shown to a target audience while active.
type Survey struct {
	ID             string           `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title          string           `gorm:"size:255;not null" bson:"title" json:"title"`
	Description    string           `gorm:"type:text" bson:"description" json:"description"`
	Type           string           `gorm:"size:32" bson:"type" json:"type"`
	Questions      []SurveyQuestion `gorm:"type:longtext;serializer:json" bson:"questions" json:"questions"`
	TargetAudience string           `gorm:"size:16;index" bson:"targetAudience" json:"targetAudience"`
	IsActive       bool             `gorm:"index" bson:"isActive" json:"isActive"`
	CreatedBy      string           `gorm:"size:36" bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
}

// SurveyAnswer is the answer to the question at QuestionIndex. Answer may be a string, number or list.
type SurveyAnswer struct {
	QuestionIndex int `bson:"questionIndex" json:"questionIndex"`
	Answer        any `bson:"answer" json:"answer"`
}

// SurveyResponse is one user's submission for a survey.
type SurveyResponse struct {
	ID          string         `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Survey      string         `gorm:"column:survey_id;size:36;index;not null" bson:"survey" json:"survey"`
	User        string         `gorm:"column:user_id;size:36;index;not null" bson:"user" json:"user"`
	Course      string         `gorm:"column:course_id;size:36" bson:"course,omitempty" json:"course,omitempty"`
	Responses   []SurveyAnswer `gorm:"type:longtext;serializer:json" bson:"responses" json:"responses"`
	TimeSpent   int            `bson:"timeSpent" json:"timeSpent"`
	IsCompleted bool           `bson:"isCompleted" json:"isCompleted"`
	SubmittedAt time.Time      `bson:"submittedAt" json:"submittedAt"`
}

// AudienceFor maps a role to the audiences whose surveys it should see.
func AudienceFor(role string) []string {
	if role == RoleInstructor {
		return []string{AudienceAll, AudienceInstructors}
	}
	return []string{AudienceAll, AudienceStudents}
}

// BeforeCreate hook ensures id and timestamp are set even when not provided.
func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}

// BeforeCreate hook ensures id and timestamp are set even when not provided.
func (r *SurveyResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}
