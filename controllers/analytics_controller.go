package controllers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

const recentActivityLimit = 10

// AnalyticsController serves the learner dashboard and learning effectiveness records.
type AnalyticsController struct {
	users         store.UserStore
	progress      store.ProgressStore
	events        store.AnalyticsStore
	effectiveness store.EffectivenessStore
	log           *zap.Logger
}

// NewAnalyticsController creates an AnalyticsController.
func NewAnalyticsController(s store.Store, log *zap.Logger) *AnalyticsController {
	return &AnalyticsController{
		users:         s.Users(),
		progress:      s.Progress(),
		events:        s.Analytics(),
		effectiveness: s.Effectiveness(),
		log:           log,
	}
}

// Dashboard summarizes the caller's ledger, course progress and recent activity.
func (a *AnalyticsController) Dashboard(ctx *gin.Context) {
	userID, _ := getUserID(ctx)

	var (
		user     *models.User
		progress []models.Progress
		events   []models.AnalyticsEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = a.users.GetUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = a.progress.QueryProgress(gctx, store.ProgressQuery{UserID: userID})
		return err
	})
	g.Go(func() error {
		var err error
		events, err = a.events.QueryEvents(gctx, store.EventQuery{UserID: userID, Limit: recentActivityLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		respondLookupError(ctx, a.log, err, services.ErrUserNotFound, "load dashboard")
		return
	}

	avg := 0.0
	if len(progress) > 0 {
		sum := 0.0
		for _, p := range progress {
			sum += p.OverallProgress
		}
		avg = math.Round(sum / float64(len(progress)))
	}
	if events == nil {
		events = []models.AnalyticsEvent{}
	}

	utils.Success(ctx, gin.H{
		"user": gin.H{
			"points": user.Gamification.TotalPoints,
			"level":  user.Gamification.Level,
			"badges": len(user.Gamification.Badges),
			"streak": user.Gamification.StreakDays,
		},
		"courses": gin.H{
			"enrolled":        len(user.EnrolledCourses),
			"completed":       len(user.CompletedCourses),
			"averageProgress": avg,
		},
		"recentActivity": events,
	})
}

// GetEffectiveness lists effectiveness records. Students only see their own.
func (a *AnalyticsController) GetEffectiveness(ctx *gin.Context) {
	q := store.EffectivenessQuery{CourseID: strings.TrimSpace(ctx.Query("courseId"))}
	if getRole(ctx) == models.RoleStudent {
		q.UserID, _ = getUserID(ctx)
	}

	list, err := a.effectiveness.QueryEffectiveness(ctx, q)
	if err != nil {
		respondServiceError(ctx, a.log, services.Internal("query effectiveness", err))
		return
	}
	if list == nil {
		list = []models.LearningEffectiveness{}
	}
	utils.Success(ctx, list)
}

// UpdateEffectiveness upserts the caller's record for a course and refreshes the
// improvement percentage and gamification snapshot.
func (a *AnalyticsController) UpdateEffectiveness(ctx *gin.Context) {
	type request struct {
		CourseID            string   `json:"courseId" binding:"required"`
		PreAssessmentScore  *float64 `json:"preAssessmentScore" binding:"omitempty,gte=0,lte=100"`
		PostAssessmentScore *float64 `json:"postAssessmentScore" binding:"omitempty,gte=0,lte=100"`
		SatisfactionScore   *float64 `json:"satisfactionScore" binding:"omitempty,gte=1,lte=5"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		respondLookupError(ctx, a.log, err, services.ErrUserNotFound, "load user")
		return
	}

	record, err := a.effectiveness.GetEffectiveness(ctx, userID, req.CourseID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			respondServiceError(ctx, a.log, services.Internal("load effectiveness", err))
			return
		}
		record = &models.LearningEffectiveness{User: userID, Course: req.CourseID}
	}

	if req.PreAssessmentScore != nil {
		record.PreAssessmentScore = req.PreAssessmentScore
	}
	if req.PostAssessmentScore != nil {
		record.PostAssessmentScore = req.PostAssessmentScore
	}
	if req.SatisfactionScore != nil {
		record.SatisfactionScore = req.SatisfactionScore
	}
	record.Recompute(user, req.SatisfactionScore, time.Now())

	if err := a.effectiveness.UpsertEffectiveness(ctx, record); err != nil {
		respondServiceError(ctx, a.log, services.Internal("save effectiveness", err))
		return
	}
	utils.Success(ctx, record)
}
