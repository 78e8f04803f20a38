package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

const leaderboardSize = 100

// GamificationController serves the leaderboard and the caller's badges.
type GamificationController struct {
	users store.UserStore
	log   *zap.Logger
}

// NewGamificationController creates a GamificationController.
func NewGamificationController(s store.Store, log *zap.Logger) *GamificationController {
	return &GamificationController{users: s.Users(), log: log}
}

// Leaderboard ranks the top users by total points.
func (g *GamificationController) Leaderboard(ctx *gin.Context) {
	if serveCached(ctx, utils.CacheLeaderboardKey) {
		return
	}

	users, err := g.users.QueryUsers(ctx, store.UserQuery{OrderByPoints: true, Limit: leaderboardSize})
	if err != nil {
		respondServiceError(ctx, g.log, services.Internal("query leaderboard", err))
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i, u := range users {
		entries = append(entries, gin.H{
			"rank": i + 1,
			"user": gin.H{
				"id":        u.ID,
				"firstName": u.FirstName,
				"lastName":  u.LastName,
				"level":     u.Gamification.Level,
			},
			"points": u.Gamification.TotalPoints,
		})
	}
	ttl := time.Duration(config.Get().LeaderboardCacheTTLSec) * time.Second
	successCached(ctx, utils.CacheLeaderboardKey, entries, ttl)
}

// Badges returns the badges earned by the caller.
func (g *GamificationController) Badges(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		respondLookupError(ctx, g.log, err, services.ErrUserNotFound, "load user")
		return
	}
	utils.Success(ctx, user.Gamification.Badges)
}
