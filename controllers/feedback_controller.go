package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

var errFeedbackNotFound = &services.Error{Kind: services.KindNotFound, Code: "feedback_not_found", Message: "Feedback not found"}

// FeedbackController collects user feedback and serves the admin review queue.
type FeedbackController struct {
	feedback store.FeedbackStore
	recorder *services.Recorder
	log      *zap.Logger
}

// NewFeedbackController creates a FeedbackController.
func NewFeedbackController(s store.Store, recorder *services.Recorder, log *zap.Logger) *FeedbackController {
	return &FeedbackController{feedback: s.Feedback(), recorder: recorder, log: log}
}

// Submit stores a feedback entry from the caller.
func (f *FeedbackController) Submit(ctx *gin.Context) {
	type request struct {
		Type        string `json:"type" binding:"required,oneof=course platform feature bug suggestion"`
		Rating      int    `json:"rating" binding:"required,min=1,max=5"`
		Subject     string `json:"subject" binding:"required,max=255"`
		Message     string `json:"message" binding:"required,max=5000"`
		Category    string `json:"category" binding:"omitempty,oneof=usability content gamification performance other"`
		IsAnonymous bool   `json:"isAnonymous"`
		CourseID    string `json:"courseId"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	now := time.Now()
	fb := &models.Feedback{
		User:        userID,
		Course:      strings.TrimSpace(req.CourseID),
		Type:        req.Type,
		Rating:      req.Rating,
		Subject:     utils.SanitizeText(req.Subject),
		Message:     utils.Sanitize(req.Message),
		Category:    req.Category,
		IsAnonymous: req.IsAnonymous,
		Status:      models.FeedbackPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.feedback.UpsertFeedback(ctx, fb); err != nil {
		respondServiceError(ctx, f.log, services.Internal("save feedback", err))
		return
	}

	f.recorder.Track(ctx, userID, models.ActionFeedbackSubmitted, map[string]any{
		"type":     fb.Type,
		"rating":   fb.Rating,
		"category": fb.Category,
	})
	utils.Created(ctx, gin.H{
		"message":  "Feedback submitted successfully",
		"feedback": fb,
	})
}

// ListMine returns the caller's feedback, newest first.
func (f *FeedbackController) ListMine(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	list, err := f.feedback.QueryFeedback(ctx, store.FeedbackQuery{UserID: userID})
	if err != nil {
		respondServiceError(ctx, f.log, services.Internal("query feedback", err))
		return
	}
	if list == nil {
		list = []models.Feedback{}
	}
	utils.Success(ctx, list)
}

// ListAll returns a page of feedback filtered by type, status and rating.
func (f *FeedbackController) ListAll(ctx *gin.Context) {
	q := store.FeedbackQuery{
		Type:   strings.TrimSpace(ctx.Query("type")),
		Status: strings.TrimSpace(ctx.Query("status")),
	}
	if v := strings.TrimSpace(ctx.Query("rating")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			utils.Error(ctx, http.StatusBadRequest, 40051, "rating must be between 1 and 5")
			return
		}
		q.Rating = n
	}

	list, err := f.feedback.QueryFeedback(ctx, q)
	if err != nil {
		respondServiceError(ctx, f.log, services.Internal("query feedback", err))
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	total := len(list)
	utils.Success(ctx, gin.H{
		"items": paginate(list, page, pageSize),
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	})
}

// Review sets the status and admin response of a feedback entry.
func (f *FeedbackController) Review(ctx *gin.Context) {
	type request struct {
		Status        string `json:"status" binding:"required,oneof=pending reviewed resolved"`
		AdminResponse string `json:"adminResponse" binding:"max=5000"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid request payload")
		return
	}

	fb, err := f.feedback.GetFeedback(ctx, strings.TrimSpace(ctx.Param("id")))
	if err != nil {
		respondLookupError(ctx, f.log, err, errFeedbackNotFound, "load feedback")
		return
	}

	fb.Status = req.Status
	if req.AdminResponse != "" {
		fb.AdminResponse = utils.Sanitize(req.AdminResponse)
	}
	fb.UpdatedAt = time.Now()
	if err := f.feedback.UpsertFeedback(ctx, fb); err != nil {
		respondServiceError(ctx, f.log, services.Internal("save feedback", err))
		return
	}
	utils.Success(ctx, fb)
}
