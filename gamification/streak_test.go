package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		since  time.Duration
		streak int
		want   int
	}{
		{"same day keeps streak", 3 * time.Hour, 4, 4},
		{"next day extends streak", 25 * time.Hour, 4, 5},
		{"gap restarts streak", 72 * time.Hour, 4, 1},
		{"fresh user stays at zero within a day", time.Minute, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := newUser()
			u.Gamification.StreakDays = tc.streak
			u.Gamification.LastActivityDate = now.Add(-tc.since)

			earned := UpdateStreak(u, now)

			assert.Empty(t, earned)
			assert.Equal(t, tc.want, u.Gamification.StreakDays)
			assert.Equal(t, now, u.Gamification.LastActivityDate)
		})
	}
}

func TestUpdateStreakAwardsWeekWarriorOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newUser()
	u.Gamification.StreakDays = 6
	u.Gamification.LastActivityDate = now.Add(-24 * time.Hour)

	earned := UpdateStreak(u, now)
	require.Len(t, earned, 1)
	assert.Equal(t, WeekWarrior.Name, earned[0].Name)
	assert.Equal(t, 7, u.Gamification.StreakDays)

	// Break the streak and rebuild it: the badge is not duplicated.
	u.Gamification.StreakDays = 6
	u.Gamification.LastActivityDate = now.Add(24 * time.Hour)
	earned = UpdateStreak(u, now.Add(48*time.Hour))
	assert.Empty(t, earned)
	assert.Len(t, u.Gamification.Badges, 1)
}

func TestUpdateStreakAwardsMonthMaster(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newUser()
	u.Gamification.StreakDays = 29
	u.Gamification.LastActivityDate = now.Add(-30 * time.Hour)

	earned := UpdateStreak(u, now)
	require.Len(t, earned, 1)
	assert.Equal(t, MonthMaster.Name, earned[0].Name)
	assert.True(t, u.HasBadge("Month Master"))
}
