package controllers

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

const activeWindow = 30 * 24 * time.Hour

// StatsController provides admin statistics across users, courses and feedback.
type StatsController struct {
	s   store.Store
	log *zap.Logger
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(s store.Store, log *zap.Logger) *StatsController {
	return &StatsController{s: s, log: log}
}

// GetStats returns platform totals and the most recent registrations.
func (st *StatsController) GetStats(ctx *gin.Context) {
	totalUsers, err := st.s.Users().CountUsers(ctx, store.UserQuery{})
	if err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		st.log.Warn("count users failed", zap.Error(err))
		totalUsers = 0
	}

	totalCourses, err := st.s.Courses().CountCourses(ctx)
	if err != nil {
		st.log.Warn("count courses failed", zap.Error(err))
		totalCourses = 0
	}

	totalEnrollments, err := st.s.Courses().TotalEnrollments(ctx)
	if err != nil {
		st.log.Warn("count enrollments failed", zap.Error(err))
		totalEnrollments = 0
	}

	recent := []gin.H{}
	users, err := st.s.Users().QueryUsers(ctx, store.UserQuery{Limit: 10})
	if err != nil {
		st.log.Warn("query recent users failed", zap.Error(err))
	}
	for _, u := range users {
		recent = append(recent, gin.H{
			"id":        u.ID,
			"username":  u.Username,
			"email":     u.Email,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"role":      u.Role,
			"createdAt": u.CreatedAt,
		})
	}

	utils.Success(ctx, gin.H{
		"totalUsers":       totalUsers,
		"totalCourses":     totalCourses,
		"totalEnrollments": totalEnrollments,
		"recentUsers":      recent,
	})
}

// GetPlatformAnalytics reports engagement, completion and effectiveness aggregates.
func (st *StatsController) GetPlatformAnalytics(ctx *gin.Context) {
	totalUsers, err := st.s.Users().CountUsers(ctx, store.UserQuery{})
	if err != nil {
		st.log.Warn("count users failed", zap.Error(err))
		totalUsers = 0
	}
	activeUsers, err := st.s.Users().CountUsers(ctx, store.UserQuery{ActiveSince: time.Now().Add(-activeWindow)})
	if err != nil {
		st.log.Warn("count active users failed", zap.Error(err))
		activeUsers = 0
	}

	totalEnrollments, err := st.s.Progress().CountProgress(ctx, store.ProgressQuery{})
	if err != nil {
		st.log.Warn("count progress failed", zap.Error(err))
		totalEnrollments = 0
	}
	completed, err := st.s.Progress().CountProgress(ctx, store.ProgressQuery{CompletedOnly: true})
	if err != nil {
		st.log.Warn("count completed progress failed", zap.Error(err))
		completed = 0
	}

	avgPoints, err := st.s.Users().AveragePoints(ctx)
	if err != nil {
		st.log.Warn("average points failed", zap.Error(err))
		avgPoints = 0
	}
	avgSatisfaction, err := st.s.Feedback().AverageRating(ctx)
	if err != nil {
		st.log.Warn("average rating failed", zap.Error(err))
		avgSatisfaction = 0
	}

	effectiveness, err := st.s.Effectiveness().Averages(ctx)
	if err != nil {
		st.log.Warn("effectiveness averages failed", zap.Error(err))
		effectiveness = store.EffectivenessAverages{}
	}

	utils.Success(ctx, gin.H{
		"users": gin.H{
			"total":          totalUsers,
			"active":         activeUsers,
			"engagementRate": percent(activeUsers, totalUsers),
		},
		"courses": gin.H{
			"totalEnrollments": totalEnrollments,
			"completedCourses": completed,
			"completionRate":   percent(completed, totalEnrollments),
		},
		"gamification": gin.H{
			"avgPoints":       avgPoints,
			"avgSatisfaction": avgSatisfaction,
		},
		"effectiveness": effectiveness,
	})
}

// percent returns part/total*100 rounded to one decimal, 0 when total is 0.
func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
