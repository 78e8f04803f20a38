package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/eduquest/models"
)

func newUser() *models.User {
	return models.NewUser("learner", "learner@example.com", "hash", "Lea", "Rner", "", time.Now())
}

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{2850, 29},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestAwardPointsRecomputesLevel(t *testing.T) {
	u := newUser()
	AwardPoints(u, 50)
	assert.Equal(t, 50, u.Gamification.TotalPoints)
	assert.Equal(t, 1, u.Gamification.Level)

	AwardPoints(u, 200)
	assert.Equal(t, 250, u.Gamification.TotalPoints)
	assert.Equal(t, 3, u.Gamification.Level)
}

func TestAwardBadgeIsIdempotent(t *testing.T) {
	u := newUser()
	now := time.Now()

	require.True(t, AwardBadge(u, PerfectScore, now))
	assert.False(t, AwardBadge(u, PerfectScore, now.Add(time.Hour)))
	require.Len(t, u.Gamification.Badges, 1)

	b := u.Gamification.Badges[0]
	assert.Equal(t, "Perfect Score", b.Name)
	assert.Equal(t, "💯", b.Icon)
	assert.Equal(t, now, b.EarnedAt)
}

func TestQuizPoints(t *testing.T) {
	assert.Equal(t, 16, QuizPoints(8, 10))
	assert.Equal(t, 20, QuizPoints(10, 10))
	assert.Equal(t, 6, QuizPoints(1, 3))
	assert.Equal(t, 0, QuizPoints(0, 10))
	assert.Equal(t, 0, QuizPoints(5, 0))
}

func TestCatalogHasFiveUniqueBadges(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range Catalog() {
		assert.False(t, seen[b.Name], "duplicate badge %s", b.Name)
		seen[b.Name] = true
	}
	assert.Len(t, seen, 5)
}
