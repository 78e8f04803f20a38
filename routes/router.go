package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/controllers"
	"github.com/cppla/eduquest/metrics"
	"github.com/cppla/eduquest/middleware"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

// Deps carries what the handlers need.
type Deps struct {
	Store    store.Store
	Learning *services.LearningService
	Recorder *services.Recorder
	Logger   *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	// Access log goes to its own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		log.Warn("gin logger init failed", zap.Error(err))
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestMetrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authController := controllers.NewAuthController(d.Store, d.Learning, d.Recorder, log)
	courseController := controllers.NewCourseController(d.Store, d.Learning, log)
	progressController := controllers.NewProgressController(d.Store, d.Learning, log)
	gamificationController := controllers.NewGamificationController(d.Store, log)
	analyticsController := controllers.NewAnalyticsController(d.Store, log)
	feedbackController := controllers.NewFeedbackController(d.Store, d.Recorder, log)
	surveyController := controllers.NewSurveyController(d.Store, d.Recorder, log)
	statsController := controllers.NewStatsController(d.Store, log)
	configController := controllers.NewConfigController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware("auth"))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	// Public catalog
	api.GET("/courses", courseController.ListCourses)
	api.GET("/courses/:id", courseController.GetCourse)
	api.GET("/gamification/rules", configController.GetRules)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware("api"))

	protected.GET("/users/profile", authController.Profile)
	protected.PUT("/users/profile", authController.UpdateProfile)

	protected.POST("/courses", middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), courseController.CreateCourse)
	protected.POST("/courses/:id/enroll", courseController.Enroll)
	protected.POST("/courses/:id/ratings", courseController.RateCourse)

	protected.GET("/progress/:courseId", progressController.GetProgress)
	protected.POST("/progress/:courseId/module/:moduleIndex", progressController.CompleteModule)
	protected.POST("/progress/:courseId/quiz", progressController.RecordQuiz)

	protected.GET("/leaderboard", gamificationController.Leaderboard)
	protected.GET("/badges", gamificationController.Badges)

	protected.GET("/analytics/dashboard", analyticsController.Dashboard)
	protected.GET("/analytics/effectiveness", analyticsController.GetEffectiveness)
	protected.POST("/analytics/effectiveness/update", analyticsController.UpdateEffectiveness)

	protected.POST("/feedback", feedbackController.Submit)
	protected.GET("/feedback/my", feedbackController.ListMine)

	protected.GET("/surveys/active", surveyController.Active)
	protected.POST("/surveys/:id/response", surveyController.Respond)

	admin := protected.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("/surveys", surveyController.Create)
	admin.GET("/admin/feedback", feedbackController.ListAll)
	admin.PATCH("/admin/feedback/:id", feedbackController.Review)
	admin.GET("/admin/stats", statsController.GetStats)
	admin.GET("/admin/analytics/platform", statsController.GetPlatformAnalytics)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
