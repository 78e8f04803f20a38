package models

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Difficulty levels accepted for a course.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Quiz is a single multiple-choice question attached to a module.
type Quiz struct {
	Question      string   `bson:"question" json:"question" binding:"required"`
	Options       []string `bson:"options" json:"options"`
	CorrectAnswer int      `bson:"correctAnswer" json:"correctAnswer" binding:"gte=0"`
	Points        int      `bson:"points" json:"points"`
}

// Module is one ordered unit of course content.
type Module struct {
	Title       string `bson:"title" json:"title" binding:"required"`
	Description string `bson:"description" json:"description"`
	Content     string `bson:"content" json:"content"`
	VideoURL    string `bson:"videoUrl" json:"videoUrl"`
	Order       int    `bson:"order" json:"order" binding:"gte=0"`
	Quizzes     []Quiz `bson:"quizzes" json:"quizzes" binding:"dive"`
}

// Rating is a learner's 1..5 score for a course.
type Rating struct {
	User   string `bson:"user" json:"user"`
	Rating int    `bson:"rating" json:"rating"`
	Review string `bson:"review" json:"review"`
}

// Course holds content and the enrolled student list.
type Course struct {
	ID               string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title            string    `gorm:"size:255;not null" bson:"title" json:"title"`
	Description      string    `gorm:"type:text" bson:"description" json:"description"`
	Instructor       string    `gorm:"size:36;index" bson:"instructor" json:"instructor"`
	Category         string    `gorm:"size:64;index" bson:"category" json:"category"`
	Difficulty       string    `gorm:"size:16;index" bson:"difficulty" json:"difficulty"`
	Duration         int       `bson:"duration" json:"duration"`
	Thumbnail        string    `gorm:"size:512" bson:"thumbnail" json:"thumbnail"`
	Modules          []Module  `gorm:"type:longtext;serializer:json" bson:"modules" json:"modules"`
	EnrolledStudents []string  `gorm:"type:longtext;serializer:json" bson:"enrolledStudents" json:"enrolledStudents"`
	Ratings          []Rating  `gorm:"type:longtext;serializer:json" bson:"ratings" json:"ratings"`
	AverageRating    float64   `bson:"averageRating" json:"averageRating"`
	IsPublished      bool      `gorm:"index" bson:"isPublished" json:"isPublished"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ModuleCount returns the number of modules. A course's module count is fixed once learners enroll.
func (c *Course) ModuleCount() int {
	return len(c.Modules)
}

// HasModule reports whether index addresses an existing module.
func (c *Course) HasModule(index int) bool {
	return index >= 0 && index < len(c.Modules)
}

// HasQuiz reports whether the module at moduleIndex has a quiz at quizIndex.
func (c *Course) HasQuiz(moduleIndex, quizIndex int) bool {
	if !c.HasModule(moduleIndex) {
		return false
	}
	return quizIndex >= 0 && quizIndex < len(c.Modules[moduleIndex].Quizzes)
}

// HasStudent reports whether userID is on the enrolled student list.
func (c *Course) HasStudent(userID string) bool {
	return slices.Contains(c.EnrolledStudents, userID)
}

// AddStudent appends userID when not already enrolled and reports whether the list changed.
func (c *Course) AddStudent(userID string) bool {
	if c.HasStudent(userID) {
		return false
	}
	c.EnrolledStudents = append(c.EnrolledStudents, userID)
	return true
}

// Rate records or replaces userID's rating and recomputes AverageRating rounded to one decimal.
func (c *Course) Rate(userID string, rating int, review string) {
	idx := slices.IndexFunc(c.Ratings, func(r Rating) bool { return r.User == userID })
	entry := Rating{User: userID, Rating: rating, Review: review}
	if idx >= 0 {
		c.Ratings[idx] = entry
	} else {
		c.Ratings = append(c.Ratings, entry)
	}
	sum := 0
	for _, r := range c.Ratings {
		sum += r.Rating
	}
	c.AverageRating = math.Round(float64(sum)/float64(len(c.Ratings))*10) / 10
}

// BeforeCreate hook ensures id and timestamps are set even when not provided.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return nil
}
