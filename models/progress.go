package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Progress lifecycle states. A missing record is not-started.
const (
	StateNotStarted = "not-started"
	StateInProgress = "in-progress"
	StateCompleted  = "completed"
)

// QuizScore is one recorded quiz attempt. Attempts are never deduplicated.
type QuizScore struct {
	ModuleIndex int       `bson:"moduleIndex" json:"moduleIndex"`
	QuizIndex   int       `bson:"quizIndex" json:"quizIndex"`
	Score       int       `bson:"score" json:"score"`
	MaxScore    int       `bson:"maxScore" json:"maxScore"`
	CompletedAt time.Time `bson:"completedAt" json:"completedAt"`
}

// Progress tracks one user's advancement through one course.
type Progress struct {
	ID               string      `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	User             string      `gorm:"column:user_id;size:36;uniqueIndex:idx_progress_user_course;not null" bson:"user" json:"user"`
	Course           string      `gorm:"column:course_id;size:36;uniqueIndex:idx_progress_user_course;not null" bson:"course" json:"course"`
	CompletedModules []int       `gorm:"type:text;serializer:json" bson:"completedModules" json:"completedModules"`
	QuizScores       []QuizScore `gorm:"type:longtext;serializer:json" bson:"quizScores" json:"quizScores"`
	OverallProgress  float64     `bson:"overallProgress" json:"overallProgress"`
	TimeSpent        int         `bson:"timeSpent" json:"timeSpent"`
	LastAccessed     time.Time   `bson:"lastAccessed" json:"lastAccessed"`
	IsCompleted      bool        `gorm:"index" bson:"isCompleted" json:"isCompleted"`
	CompletedAt      *time.Time  `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ModuleTransition describes what a CompleteModule call changed.
type ModuleTransition struct {
	// NewlyCompleted is false when the module index was already recorded.
	NewlyCompleted bool
	// FirstModule is set when the completed list grew to exactly one entry.
	FirstModule bool
	// CourseCompleted is set only on the call that moved the record to completed.
	CourseCompleted bool
}

// NewProgress creates the in-progress record written at enrollment.
func NewProgress(userID, courseID string, now time.Time) *Progress {
	return &Progress{
		ID:               uuid.NewString(),
		User:             userID,
		Course:           courseID,
		CompletedModules: []int{},
		QuizScores:       []QuizScore{},
		LastAccessed:     now,
	}
}

// State reports the lifecycle state of the record.
func (p *Progress) State() string {
	if p.IsCompleted {
		return StateCompleted
	}
	return StateInProgress
}

// HasCompletedModule reports whether index was already recorded.
func (p *Progress) HasCompletedModule(index int) bool {
	return slices.Contains(p.CompletedModules, index)
}

// CompleteModule records index as done for a course with moduleCount modules.
// Re-completing a known index only refreshes OverallProgress and LastAccessed.
func (p *Progress) CompleteModule(index, moduleCount int, now time.Time) ModuleTransition {
	var t ModuleTransition
	if !p.HasCompletedModule(index) {
		p.CompletedModules = append(p.CompletedModules, index)
		t.NewlyCompleted = true
		t.FirstModule = len(p.CompletedModules) == 1
	}

	if moduleCount > 0 {
		p.OverallProgress = float64(len(p.CompletedModules)) / float64(moduleCount) * 100
	}
	p.LastAccessed = now

	if !p.IsCompleted && moduleCount > 0 && len(p.CompletedModules) == moduleCount {
		p.IsCompleted = true
		completedAt := now
		p.CompletedAt = &completedAt
		t.CourseCompleted = true
	}
	return t
}

// RecordQuiz appends an attempt. Nothing else on the record changes.
func (p *Progress) RecordQuiz(moduleIndex, quizIndex, score, maxScore int, now time.Time) QuizScore {
	qs := QuizScore{
		ModuleIndex: moduleIndex,
		QuizIndex:   quizIndex,
		Score:       score,
		MaxScore:    maxScore,
		CompletedAt: now,
	}
	p.QuizScores = append(p.QuizScores, qs)
	return qs
}

// BeforeCreate hook ensures the id is set even when not provided.
func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
