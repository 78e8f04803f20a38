package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

// ProgressController exposes the caller's progress through a course.
type ProgressController struct {
	progress store.ProgressStore
	courses  store.CourseStore
	learning *services.LearningService
	log      *zap.Logger
}

// NewProgressController creates a ProgressController.
func NewProgressController(s store.Store, learning *services.LearningService, log *zap.Logger) *ProgressController {
	return &ProgressController{progress: s.Progress(), courses: s.Courses(), learning: learning, log: log}
}

// GetProgress returns the caller's progress record with a course summary.
func (p *ProgressController) GetProgress(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	courseID := strings.TrimSpace(ctx.Param("courseId"))

	progress, err := p.progress.GetProgress(ctx, userID, courseID)
	if err != nil {
		respondLookupError(ctx, p.log, err, services.ErrProgressNotFound, "load progress")
		return
	}

	payload := gin.H{"progress": progress, "state": progress.State()}
	if course, err := p.courses.GetCourse(ctx, courseID); err == nil {
		payload["course"] = gin.H{
			"id":      course.ID,
			"title":   course.Title,
			"modules": course.Modules,
		}
	}
	utils.Success(ctx, payload)
}

// CompleteModule marks the module in the path complete.
func (p *ProgressController) CompleteModule(ctx *gin.Context) {
	moduleIndex, err := strconv.Atoi(ctx.Param("moduleIndex"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "moduleIndex must be an integer")
		return
	}

	userID, _ := getUserID(ctx)
	progress, err := p.learning.CompleteModule(ctx, services.CompleteModuleInput{
		UserID:      userID,
		CourseID:    strings.TrimSpace(ctx.Param("courseId")),
		ModuleIndex: moduleIndex,
	})
	if err != nil {
		respondServiceError(ctx, p.log, err)
		return
	}

	utils.InvalidateKey(utils.CacheLeaderboardKey)
	utils.Success(ctx, progress)
}

// RecordQuiz stores a quiz attempt and reports the points earned.
func (p *ProgressController) RecordQuiz(ctx *gin.Context) {
	type request struct {
		ModuleIndex int `json:"moduleIndex"`
		QuizIndex   int `json:"quizIndex"`
		Score       int `json:"score"`
		MaxScore    int `json:"maxScore"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	out, err := p.learning.RecordQuiz(ctx, services.RecordQuizInput{
		UserID:      userID,
		CourseID:    strings.TrimSpace(ctx.Param("courseId")),
		ModuleIndex: req.ModuleIndex,
		QuizIndex:   req.QuizIndex,
		Score:       req.Score,
		MaxScore:    req.MaxScore,
	})
	if err != nil {
		respondServiceError(ctx, p.log, err)
		return
	}

	utils.InvalidateKey(utils.CacheLeaderboardKey)
	utils.Success(ctx, gin.H{
		"message":      "Quiz score recorded",
		"pointsEarned": out.PointsEarned,
		"badgesEarned": out.BadgesEarned,
		"progress":     out.Progress,
	})
}
