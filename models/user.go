package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a principal can carry.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Badge is a named achievement. A user holds at most one badge per name.
type Badge struct {
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Icon        string    `bson:"icon" json:"icon"`
	EarnedAt    time.Time `bson:"earnedAt" json:"earnedAt"`
}

// Profile holds optional presentation fields.
type Profile struct {
	Avatar        string `bson:"avatar" json:"avatar"`
	Bio           string `bson:"bio" json:"bio"`
	LearningStyle string `bson:"learningStyle" json:"learningStyle"`
}

// Gamification is the per-user ledger. Level is always derived from TotalPoints.
type Gamification struct {
	TotalPoints      int       `bson:"totalPoints" json:"totalPoints"`
	Level            int       `bson:"level" json:"level"`
	Badges           []Badge   `gorm:"type:text;serializer:json" bson:"badges" json:"badges"`
	StreakDays       int       `bson:"streakDays" json:"streakDays"`
	LastActivityDate time.Time `gorm:"index" bson:"lastActivityDate" json:"lastActivityDate"`
}

// User represents a learner, instructor or admin. Passwords are stored as bcrypt hashes only.
type User struct {
	ID               string       `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Username         string       `gorm:"size:64;uniqueIndex;not null" bson:"username" json:"username"`
	Email            string       `gorm:"size:255;uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash     string       `gorm:"size:255" bson:"password" json:"-"`
	FirstName        string       `gorm:"size:64" bson:"firstName" json:"firstName"`
	LastName         string       `gorm:"size:64" bson:"lastName" json:"lastName"`
	Role             string       `gorm:"size:16;default:student" bson:"role" json:"role"`
	RegisterIP       string       `gorm:"size:45" bson:"registerIp,omitempty" json:"-"`
	Profile          Profile      `gorm:"embedded;embeddedPrefix:profile_" bson:"profile" json:"profile"`
	Gamification     Gamification `gorm:"embedded;embeddedPrefix:gamification_" bson:"gamification" json:"gamification"`
	EnrolledCourses  []string     `gorm:"type:text;serializer:json" bson:"enrolledCourses" json:"enrolledCourses"`
	CompletedCourses []string     `gorm:"type:text;serializer:json" bson:"completedCourses" json:"completedCourses"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// NewUser builds a user with the documented defaults: level 1, empty ledger, student role.
func NewUser(username, email, passwordHash, firstName, lastName, role string, now time.Time) *User {
	if role == "" {
		role = RoleStudent
	}
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Profile:      Profile{LearningStyle: "visual"},
		Gamification: Gamification{
			Level:            1,
			Badges:           []Badge{},
			LastActivityDate: now,
		},
		EnrolledCourses:  []string{},
		CompletedCourses: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsEnrolled reports whether courseID is in the active enrollment list.
func (u *User) IsEnrolled(courseID string) bool {
	return slices.Contains(u.EnrolledCourses, courseID)
}

// HasCompleted reports whether courseID was completed.
func (u *User) HasCompleted(courseID string) bool {
	return slices.Contains(u.CompletedCourses, courseID)
}

// Enroll appends courseID to the enrollment list if absent.
func (u *User) Enroll(courseID string) {
	if !u.IsEnrolled(courseID) {
		u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	}
}

// MarkCourseCompleted moves courseID from enrolled to completed. Calling it twice is a no-op.
func (u *User) MarkCourseCompleted(courseID string) {
	u.EnrolledCourses = slices.DeleteFunc(u.EnrolledCourses, func(id string) bool { return id == courseID })
	if !u.HasCompleted(courseID) {
		u.CompletedCourses = append(u.CompletedCourses, courseID)
	}
}

// HasBadge reports whether a badge with the given name was already earned.
func (u *User) HasBadge(name string) bool {
	return slices.ContainsFunc(u.Gamification.Badges, func(b Badge) bool { return b.Name == name })
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// BeforeCreate hook ensures id and timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}
