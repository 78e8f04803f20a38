package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkCourseCompletedMovesOnce(t *testing.T) {
	u := NewUser("a", "a@example.com", "h", "A", "B", "", time.Now())
	u.Enroll("c1")
	u.Enroll("c1")
	u.Enroll("c2")
	assert.Equal(t, []string{"c1", "c2"}, u.EnrolledCourses)

	u.MarkCourseCompleted("c1")
	u.MarkCourseCompleted("c1")
	assert.Equal(t, []string{"c2"}, u.EnrolledCourses)
	assert.Equal(t, []string{"c1"}, u.CompletedCourses)
	assert.Equal(t, RoleStudent, u.Role)
	assert.Equal(t, 1, u.Gamification.Level)
}

func TestCourseRateReplacesUserRating(t *testing.T) {
	c := &Course{}
	c.Rate("u1", 5, "great")
	c.Rate("u2", 4, "")
	c.Rate("u1", 3, "changed my mind")

	assert.Len(t, c.Ratings, 2)
	assert.Equal(t, 3.5, c.AverageRating)
}

func TestCourseIndexChecks(t *testing.T) {
	c := &Course{Modules: []Module{{Title: "m0", Quizzes: []Quiz{{Question: "q"}}}, {Title: "m1"}}}
	assert.True(t, c.HasModule(1))
	assert.False(t, c.HasModule(2))
	assert.False(t, c.HasModule(-1))
	assert.True(t, c.HasQuiz(0, 0))
	assert.False(t, c.HasQuiz(1, 0))
	assert.True(t, c.AddStudent("u1"))
	assert.False(t, c.AddStudent("u1"))
}

func TestEffectivenessRecompute(t *testing.T) {
	pre, post, motivation := 40.0, 60.0, 4.0
	u := NewUser("a", "a@example.com", "h", "A", "B", "", time.Now())
	u.Gamification.TotalPoints = 320
	u.Gamification.StreakDays = 3
	u.Gamification.Badges = []Badge{{Name: "First Steps"}}

	e := &LearningEffectiveness{PreAssessmentScore: &pre, PostAssessmentScore: &post}
	now := time.Now()
	e.Recompute(u, &motivation, now)

	if assert.NotNil(t, e.KnowledgeImprovement) {
		assert.InDelta(t, 50.0, *e.KnowledgeImprovement, 0.0001)
	}
	assert.Equal(t, 320, e.GamificationImpact.PointsEarned)
	assert.Equal(t, 1, e.GamificationImpact.BadgesEarned)
	assert.Equal(t, 3, e.GamificationImpact.StreakDays)
	assert.Equal(t, now, e.LastUpdated)
}

func TestAudienceFor(t *testing.T) {
	assert.Equal(t, []string{AudienceAll, AudienceInstructors}, AudienceFor(RoleInstructor))
	assert.Equal(t, []string{AudienceAll, AudienceStudents}, AudienceFor(RoleStudent))
}
