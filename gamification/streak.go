package gamification

import (
	"time"

	"github.com/cppla/eduquest/models"
)

const day = 24 * time.Hour

// UpdateStreak applies a login at now to the user's streak and returns any streak badge earned.
// Elapsed whole days since the last activity decide the outcome: one extends the streak,
// more than one restarts it at 1, zero leaves it unchanged.
func UpdateStreak(u *models.User, now time.Time) []Badge {
	g := &u.Gamification
	daysDiff := int(now.Sub(g.LastActivityDate) / day)

	switch {
	case daysDiff == 1:
		g.StreakDays++
	case daysDiff > 1:
		g.StreakDays = 1
	}
	g.LastActivityDate = now

	var earned []Badge
	if g.StreakDays == WeekStreakDays {
		if AwardBadge(u, WeekWarrior, now) {
			earned = append(earned, WeekWarrior)
		}
	} else if g.StreakDays == MonthStreakDays {
		if AwardBadge(u, MonthMaster, now) {
			earned = append(earned, MonthMaster)
		}
	}
	return earned
}
