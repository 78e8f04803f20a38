package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/gamification"
	"github.com/cppla/eduquest/utils"
)

// ConfigController serves static platform configuration for clients.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetRules returns the point rules and the badge catalog.
func (c *ConfigController) GetRules(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"points": gin.H{
			"perLevel":              gamification.PointsPerLevel,
			"perModule":             gamification.PointsPerModule,
			"courseCompletionBonus": gamification.CourseCompletionBonus,
			"quizMax":               gamification.QuizMaxPoints,
		},
		"streaks": gin.H{
			"week":  gamification.WeekStreakDays,
			"month": gamification.MonthStreakDays,
		},
		"badges": gamification.Catalog(),
		"leaderboard": gin.H{
			"size":       leaderboardSize,
			"refreshSec": cfg.LeaderboardCacheTTLSec,
		},
	})
}
