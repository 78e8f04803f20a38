// Package gamification implements the points, levels, badges and streak rules.
// All functions mutate the passed user in memory only; callers persist it.
package gamification

import (
	"time"

	"github.com/cppla/eduquest/models"
)

// Point and threshold constants.
const (
	PointsPerLevel        = 100
	PointsPerModule       = 50
	CourseCompletionBonus = 200
	QuizMaxPoints         = 20
	WeekStreakDays        = 7
	MonthStreakDays       = 30
)

// LevelForPoints returns floor(points/100)+1.
func LevelForPoints(points int) int {
	if points < 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

// AwardPoints adds amount to the user's total and recomputes the level.
func AwardPoints(u *models.User, amount int) {
	u.Gamification.TotalPoints += amount
	u.Gamification.Level = LevelForPoints(u.Gamification.TotalPoints)
}

// AwardBadge appends b unless a badge with the same name is already held.
// It reports whether the badge was newly earned.
func AwardBadge(u *models.User, b Badge, now time.Time) bool {
	if u.HasBadge(b.Name) {
		return false
	}
	u.Gamification.Badges = append(u.Gamification.Badges, models.Badge{
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		EarnedAt:    now,
	})
	return true
}

// QuizPoints returns floor(score/maxScore*20). A non-positive maxScore earns nothing.
func QuizPoints(score, maxScore int) int {
	if maxScore <= 0 || score <= 0 {
		return 0
	}
	return score * QuizMaxPoints / maxScore
}
