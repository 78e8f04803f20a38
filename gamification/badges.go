package gamification

// Badge describes a catalog entry.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Trigger     string `json:"trigger"`
}

var (
	FirstSteps = Badge{
		Name:        "First Steps",
		Description: "Completed first module",
		Icon:        "🎯",
		Trigger:     "first module completed in a course",
	}
	CourseCompleted = Badge{
		Name:        "Course Completed",
		Description: "Completed a full course",
		Icon:        "🏆",
		Trigger:     "all modules of a course completed",
	}
	PerfectScore = Badge{
		Name:        "Perfect Score",
		Description: "Got 100% on a quiz",
		Icon:        "💯",
		Trigger:     "quiz submitted with full marks",
	}
	WeekWarrior = Badge{
		Name:        "Week Warrior",
		Description: "Completed 7 days streak",
		Icon:        "🔥",
		Trigger:     "login streak reaches 7 days",
	}
	MonthMaster = Badge{
		Name:        "Month Master",
		Description: "Completed 30 days streak",
		Icon:        "⭐",
		Trigger:     "login streak reaches 30 days",
	}
)

// Catalog lists every badge in display order.
func Catalog() []Badge {
	return []Badge{FirstSteps, CourseCompleted, PerfectScore, WeekWarrior, MonthMaster}
}
