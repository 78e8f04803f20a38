package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GamificationImpact snapshots a user's ledger when effectiveness is updated.
type GamificationImpact struct {
	PointsEarned    int      `bson:"pointsEarned" json:"pointsEarned"`
	BadgesEarned    int      `bson:"badgesEarned" json:"badgesEarned"`
	StreakDays      int      `bson:"streakDays" json:"streakDays"`
	MotivationLevel *float64 `bson:"motivationLevel,omitempty" json:"motivationLevel,omitempty"`
}

// LearningEffectiveness relates assessment scores to gamification for one user and course.
type LearningEffectiveness struct {
	ID                   string             `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	User                 string             `gorm:"column:user_id;size:36;uniqueIndex:idx_effectiveness_user_course;not null" bson:"user" json:"user"`
	Course               string             `gorm:"column:course_id;size:36;uniqueIndex:idx_effectiveness_user_course;not null" bson:"course" json:"course"`
	PreAssessmentScore   *float64           `bson:"preAssessmentScore,omitempty" json:"preAssessmentScore,omitempty"`
	PostAssessmentScore  *float64           `bson:"postAssessmentScore,omitempty" json:"postAssessmentScore,omitempty"`
	KnowledgeImprovement *float64           `bson:"knowledgeImprovement,omitempty" json:"knowledgeImprovement,omitempty"`
	EngagementScore      *float64           `bson:"engagementScore,omitempty" json:"engagementScore,omitempty"`
	SatisfactionScore    *float64           `bson:"satisfactionScore,omitempty" json:"satisfactionScore,omitempty"`
	RetentionScore       *float64           `bson:"retentionScore,omitempty" json:"retentionScore,omitempty"`
	GamificationImpact   GamificationImpact `gorm:"embedded;embeddedPrefix:impact_" bson:"gamificationImpact" json:"gamificationImpact"`
	CompletionTime       *float64           `bson:"completionTime,omitempty" json:"completionTime,omitempty"`
	LastUpdated          time.Time          `gorm:"index" bson:"lastUpdated" json:"lastUpdated"`
}

// TableName pins the sql table name.
func (LearningEffectiveness) TableName() string {
	return "learning_effectiveness"
}

// Recompute derives knowledge improvement from the assessment scores and snapshots u's ledger.
func (e *LearningEffectiveness) Recompute(u *User, motivation *float64, now time.Time) {
	if e.PreAssessmentScore != nil && e.PostAssessmentScore != nil && *e.PreAssessmentScore != 0 {
		improvement := (*e.PostAssessmentScore - *e.PreAssessmentScore) / *e.PreAssessmentScore * 100
		e.KnowledgeImprovement = &improvement
	}
	e.GamificationImpact = GamificationImpact{
		PointsEarned:    u.Gamification.TotalPoints,
		BadgesEarned:    len(u.Gamification.Badges),
		StreakDays:      u.Gamification.StreakDays,
		MotivationLevel: motivation,
	}
	e.LastUpdated = now
}

// BeforeCreate hook ensures the id is set even when not provided.
func (e *LearningEffectiveness) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
