package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

// CourseController serves the course catalog, enrollment and ratings.
type CourseController struct {
	courses  store.CourseStore
	users    store.UserStore
	learning *services.LearningService
	log      *zap.Logger
}

// NewCourseController creates a CourseController.
func NewCourseController(s store.Store, learning *services.LearningService, log *zap.Logger) *CourseController {
	return &CourseController{courses: s.Courses(), users: s.Users(), learning: learning, log: log}
}

func courseCacheTTL() time.Duration {
	return time.Duration(config.Get().CourseCacheTTLSec) * time.Second
}

// ListCourses returns published courses, newest first, filtered by category, difficulty and search.
func (c *CourseController) ListCourses(ctx *gin.Context) {
	q := store.CourseQuery{
		Category:      strings.TrimSpace(ctx.Query("category")),
		Difficulty:    strings.TrimSpace(ctx.Query("difficulty")),
		Search:        strings.TrimSpace(ctx.Query("search")),
		PublishedOnly: true,
	}
	key := utils.CacheCoursesPrefix + "list:" + q.Category + "|" + q.Difficulty + "|" + q.Search
	if serveCached(ctx, key) {
		return
	}

	courses, err := c.courses.QueryCourses(ctx, q)
	if err != nil {
		respondServiceError(ctx, c.log, services.Internal("query courses", err))
		return
	}
	successCached(ctx, key, courses, courseCacheTTL())
}

// GetCourse returns one course with its instructor summary.
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))
	key := utils.CacheCoursesPrefix + "id:" + id
	if serveCached(ctx, key) {
		return
	}

	course, err := c.courses.GetCourse(ctx, id)
	if err != nil {
		respondLookupError(ctx, c.log, err, services.ErrCourseNotFound, "load course")
		return
	}

	payload := gin.H{"course": course}
	if instructor, err := c.users.GetUser(ctx, course.Instructor); err == nil {
		payload["instructor"] = gin.H{
			"id":        instructor.ID,
			"firstName": instructor.FirstName,
			"lastName":  instructor.LastName,
		}
	}
	successCached(ctx, key, payload, courseCacheTTL())
}

// CreateCourse stores a new course owned by the calling instructor.
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	type request struct {
		Title       string          `json:"title" binding:"required,max=255"`
		Description string          `json:"description" binding:"required"`
		Category    string          `json:"category" binding:"required,max=64"`
		Difficulty  string          `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
		Duration    int             `json:"duration" binding:"gte=0"`
		Thumbnail   string          `json:"thumbnail" binding:"omitempty,max=512"`
		Modules     []models.Module `json:"modules" binding:"dive"`
		IsPublished bool            `json:"isPublished"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	modules := req.Modules
	if modules == nil {
		modules = []models.Module{}
	}
	for i := range modules {
		modules[i].Content = utils.Sanitize(modules[i].Content)
		if modules[i].Quizzes == nil {
			modules[i].Quizzes = []models.Quiz{}
		}
	}

	now := time.Now()
	course := &models.Course{
		Title:            utils.SanitizeText(req.Title),
		Description:      utils.Sanitize(req.Description),
		Instructor:       userID,
		Category:         strings.TrimSpace(req.Category),
		Difficulty:       req.Difficulty,
		Duration:         req.Duration,
		Thumbnail:        strings.TrimSpace(req.Thumbnail),
		Modules:          modules,
		EnrolledStudents: []string{},
		Ratings:          []models.Rating{},
		IsPublished:      req.IsPublished,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := c.courses.UpsertCourse(ctx, course); err != nil {
		respondServiceError(ctx, c.log, services.Internal("create course", err))
		return
	}

	utils.InvalidateByPrefix(utils.CacheCoursesPrefix)
	utils.Created(ctx, course)
}

// Enroll adds the caller to the course.
func (c *CourseController) Enroll(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	courseID := strings.TrimSpace(ctx.Param("id"))

	if _, err := c.learning.Enroll(ctx, services.EnrollInput{UserID: userID, CourseID: courseID}); err != nil {
		respondServiceError(ctx, c.log, err)
		return
	}

	utils.InvalidateByPrefix(utils.CacheCoursesPrefix)
	utils.Success(ctx, gin.H{
		"message":  "Successfully enrolled in course",
		"courseId": courseID,
	})
}

// RateCourse adds or replaces the caller's rating. Only enrolled or graduated users may rate.
func (c *CourseController) RateCourse(ctx *gin.Context) {
	type request struct {
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Review string `json:"review" binding:"max=2000"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "rating must be between 1 and 5")
		return
	}

	userID, _ := getUserID(ctx)
	course, err := c.courses.GetCourse(ctx, strings.TrimSpace(ctx.Param("id")))
	if err != nil {
		respondLookupError(ctx, c.log, err, services.ErrCourseNotFound, "load course")
		return
	}
	if !course.HasStudent(userID) {
		utils.Error(ctx, http.StatusForbidden, 40303, "Enroll in the course before rating it")
		return
	}

	course.Rate(userID, req.Rating, utils.SanitizeText(req.Review))
	course.UpdatedAt = time.Now()
	if err := c.courses.UpsertCourse(ctx, course); err != nil {
		respondServiceError(ctx, c.log, services.Internal("save course", err))
		return
	}

	utils.InvalidateByPrefix(utils.CacheCoursesPrefix)
	utils.Success(ctx, gin.H{
		"averageRating": course.AverageRating,
		"ratings":       len(course.Ratings),
	})
}
