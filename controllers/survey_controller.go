package controllers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

var (
	errSurveyNotFound = &services.Error{Kind: services.KindNotFound, Code: "survey_not_found", Message: "Survey not found"}
	errSurveyAnswered = &services.Error{Kind: services.KindConflict, Code: "survey_answered", Message: "Survey already completed"}
)

// SurveyController manages surveys and collects responses.
type SurveyController struct {
	surveys  store.SurveyStore
	recorder *services.Recorder
	log      *zap.Logger
}

// NewSurveyController creates a SurveyController.
func NewSurveyController(s store.Store, recorder *services.Recorder, log *zap.Logger) *SurveyController {
	return &SurveyController{surveys: s.Surveys(), recorder: recorder, log: log}
}

// Create stores a new survey authored by the calling admin.
func (s *SurveyController) Create(ctx *gin.Context) {
	type request struct {
		Title          string                  `json:"title" binding:"required,max=255"`
		Description    string                  `json:"description"`
		Type           string                  `json:"type" binding:"required,oneof=pre-course post-course satisfaction effectiveness"`
		Questions      []models.SurveyQuestion `json:"questions" binding:"required,min=1,dive"`
		TargetAudience string                  `json:"targetAudience" binding:"omitempty,oneof=all students instructors"`
		IsActive       *bool                   `json:"isActive"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	survey := &models.Survey{
		Title:          utils.SanitizeText(req.Title),
		Description:    utils.SanitizeText(req.Description),
		Type:           req.Type,
		Questions:      req.Questions,
		TargetAudience: req.TargetAudience,
		IsActive:       req.IsActive == nil || *req.IsActive,
		CreatedBy:      userID,
		CreatedAt:      time.Now(),
	}
	if survey.TargetAudience == "" {
		survey.TargetAudience = models.AudienceAll
	}
	if err := s.surveys.UpsertSurvey(ctx, survey); err != nil {
		respondServiceError(ctx, s.log, services.Internal("save survey", err))
		return
	}
	utils.Created(ctx, survey)
}

// Active lists active surveys addressed to the caller that they have not answered yet.
func (s *SurveyController) Active(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	answered, err := s.surveys.RespondedSurveyIDs(ctx, userID)
	if err != nil {
		respondServiceError(ctx, s.log, services.Internal("load responses", err))
		return
	}

	list, err := s.surveys.QuerySurveys(ctx, store.SurveyQuery{
		ActiveOnly: true,
		Audiences:  models.AudienceFor(getRole(ctx)),
		ExcludeIDs: answered,
	})
	if err != nil {
		respondServiceError(ctx, s.log, services.Internal("query surveys", err))
		return
	}
	if list == nil {
		list = []models.Survey{}
	}
	utils.Success(ctx, list)
}

// Respond stores the caller's answers to a survey.
func (s *SurveyController) Respond(ctx *gin.Context) {
	type request struct {
		Responses []models.SurveyAnswer `json:"responses" binding:"required,min=1"`
		TimeSpent int                   `json:"timeSpent" binding:"gte=0"`
		CourseID  string                `json:"courseId"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	survey, err := s.surveys.GetSurvey(ctx, strings.TrimSpace(ctx.Param("id")))
	if err != nil {
		respondLookupError(ctx, s.log, err, errSurveyNotFound, "load survey")
		return
	}
	for _, r := range req.Responses {
		if r.QuestionIndex < 0 || r.QuestionIndex >= len(survey.Questions) {
			utils.Error(ctx, http.StatusBadRequest, 40062, "questionIndex out of range")
			return
		}
	}

	answered, err := s.surveys.RespondedSurveyIDs(ctx, userID)
	if err != nil {
		respondServiceError(ctx, s.log, services.Internal("load responses", err))
		return
	}
	if slices.Contains(answered, survey.ID) {
		respondServiceError(ctx, s.log, errSurveyAnswered)
		return
	}

	resp := &models.SurveyResponse{
		Survey:      survey.ID,
		User:        userID,
		Course:      strings.TrimSpace(req.CourseID),
		Responses:   req.Responses,
		TimeSpent:   req.TimeSpent,
		IsCompleted: true,
		SubmittedAt: time.Now(),
	}
	if err := s.surveys.InsertResponse(ctx, resp); err != nil {
		respondServiceError(ctx, s.log, services.Internal("save response", err))
		return
	}

	s.recorder.Track(ctx, userID, models.ActionSurveyCompleted, map[string]any{
		"surveyId":  survey.ID,
		"timeSpent": req.TimeSpent,
	})
	utils.Created(ctx, gin.H{
		"message":  "Survey response submitted successfully",
		"response": resp,
	})
}
