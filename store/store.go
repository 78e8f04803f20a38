// Package store declares the persistence boundary. Each entity has its own
// interface so services depend only on what they read and write.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/cppla/eduquest/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a unique key is violated.
	ErrDuplicate = errors.New("store: duplicate key")
)

// UserQuery filters and orders user listings.
type UserQuery struct {
	// ActiveSince keeps users whose last activity is at or after the time.
	ActiveSince time.Time
	// OrderByPoints sorts by total points descending; otherwise newest first.
	OrderByPoints bool
	Limit         int
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	// FindUserByLogin matches on email or username.
	FindUserByLogin(ctx context.Context, email, username string) (*models.User, error)
	UpsertUser(ctx context.Context, u *models.User) error
	QueryUsers(ctx context.Context, q UserQuery) ([]models.User, error)
	CountUsers(ctx context.Context, q UserQuery) (int64, error)
	AveragePoints(ctx context.Context) (float64, error)
}

// CourseQuery filters course listings. Search matches title or description, case-insensitive.
type CourseQuery struct {
	Category      string
	Difficulty    string
	Search        string
	PublishedOnly bool
}

type CourseStore interface {
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	UpsertCourse(ctx context.Context, c *models.Course) error
	QueryCourses(ctx context.Context, q CourseQuery) ([]models.Course, error)
	CountCourses(ctx context.Context) (int64, error)
	// TotalEnrollments sums enrolled students across all courses.
	TotalEnrollments(ctx context.Context) (int64, error)
}

// ProgressQuery filters progress listings.
type ProgressQuery struct {
	UserID        string
	CompletedOnly bool
}

type ProgressStore interface {
	GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error)
	UpsertProgress(ctx context.Context, p *models.Progress) error
	QueryProgress(ctx context.Context, q ProgressQuery) ([]models.Progress, error)
	CountProgress(ctx context.Context, q ProgressQuery) (int64, error)
}

// EventQuery selects a user's most recent events.
type EventQuery struct {
	UserID string
	Limit  int
}

type AnalyticsStore interface {
	AppendEvent(ctx context.Context, e *models.AnalyticsEvent) error
	QueryEvents(ctx context.Context, q EventQuery) ([]models.AnalyticsEvent, error)
}

// FeedbackQuery filters feedback listings; zero values are ignored.
type FeedbackQuery struct {
	UserID string
	Type   string
	Status string
	Rating int
}

type FeedbackStore interface {
	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)
	UpsertFeedback(ctx context.Context, f *models.Feedback) error
	QueryFeedback(ctx context.Context, q FeedbackQuery) ([]models.Feedback, error)
	AverageRating(ctx context.Context) (float64, error)
}

// SurveyQuery filters survey listings.
type SurveyQuery struct {
	ActiveOnly bool
	Audiences  []string
	ExcludeIDs []string
}

type SurveyStore interface {
	GetSurvey(ctx context.Context, id string) (*models.Survey, error)
	UpsertSurvey(ctx context.Context, s *models.Survey) error
	QuerySurveys(ctx context.Context, q SurveyQuery) ([]models.Survey, error)
	InsertResponse(ctx context.Context, r *models.SurveyResponse) error
	// RespondedSurveyIDs lists surveys the user has already answered.
	RespondedSurveyIDs(ctx context.Context, userID string) ([]string, error)
}

// EffectivenessQuery filters effectiveness listings; zero values are ignored.
type EffectivenessQuery struct {
	UserID   string
	CourseID string
}

// EffectivenessAverages aggregates effectiveness records across the platform.
type EffectivenessAverages struct {
	AvgImprovement  float64 `bson:"avgImprovement" json:"avgImprovement"`
	AvgSatisfaction float64 `bson:"avgSatisfaction" json:"avgSatisfaction"`
	AvgEngagement   float64 `bson:"avgEngagement" json:"avgEngagement"`
}

type EffectivenessStore interface {
	GetEffectiveness(ctx context.Context, userID, courseID string) (*models.LearningEffectiveness, error)
	UpsertEffectiveness(ctx context.Context, e *models.LearningEffectiveness) error
	QueryEffectiveness(ctx context.Context, q EffectivenessQuery) ([]models.LearningEffectiveness, error)
	Averages(ctx context.Context) (EffectivenessAverages, error)
}

// Store aggregates every entity store behind one backend.
type Store interface {
	Users() UserStore
	Courses() CourseStore
	Progress() ProgressStore
	Analytics() AnalyticsStore
	Feedback() FeedbackStore
	Surveys() SurveyStore
	Effectiveness() EffectivenessStore
	// Reset deletes all users, courses and progress records.
	Reset(ctx context.Context) error
	Close(ctx context.Context) error
}
