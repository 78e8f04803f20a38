package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store/sqlstore"
	"github.com/cppla/eduquest/utils"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type envelope struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type listEnvelope struct {
	Code int              `json:"code"`
	Data []map[string]any `json:"data"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	store  *sqlstore.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	config.Set(config.AppConfig{
		JWTSecret:          "router-test-secret",
		RedisDisabled:      true,
		LogLevel:           "silent",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		RateLimitPerMinute: 100000,
		StoreDriver:        "sqlite",
		SQLitePath:         ":memory:",
	})
	db, err := config.OpenDatabase(config.Get())
	require.NoError(t, err)
	st, err := sqlstore.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	log := zaptest.NewLogger(t)
	recorder := services.NewRecorder(st.Analytics(), nil, log)
	engine := SetupRouter(Deps{
		Store:    st,
		Learning: services.NewLearningService(st, recorder, log),
		Recorder: recorder,
		Logger:   log,
	})
	return &server{t: t, engine: engine, store: st}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var env listEnvelope
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

// register creates an account and returns its token and id.
func (s *server) register(username, role string) (string, string) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password123",
		"firstName": "Test",
		"lastName":  username,
		"role":      role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(s.t, w)
	user := env.Data["user"].(map[string]any)
	return env.Data["token"].(string), user["id"].(string)
}

// seedAdmin stores an admin directly, since registration never grants the admin role.
func (s *server) seedAdmin() string {
	s.t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(s.t, err)
	admin := models.NewUser("root_admin", "admin@example.com", hash, "Ada", "Admin", models.RoleAdmin, time.Now())
	require.NoError(s.t, s.store.Users().UpsertUser(context.Background(), admin))

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "admin@example.com", "password": "password123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode(s.t, w).Data["token"].(string)
}

func (s *server) createCourse(token string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/courses", token, map[string]any{
		"title":       "JavaScript Fundamentals",
		"description": "Learn the basics",
		"category":    "programming",
		"difficulty":  "beginner",
		"duration":    120,
		"isPublished": true,
		"modules": []map[string]any{
			{"title": "Variables", "order": 0, "quizzes": []map[string]any{
				{"question": "let or var?", "options": []string{"let", "var"}, "correctAnswer": 0, "points": 10},
			}},
			{"title": "Functions", "order": 1},
		},
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(s.t, w).Data["id"].(string)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w).Data["status"])

	w = s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, decode(t, w).Code)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRegisterLoginAndProfile(t *testing.T) {
	s := newServer(t)
	token, _ := s.register("alex_star", "")

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alex_star", "email": "other@example.com", "password": "password123",
		"firstName": "A", "lastName": "B",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "sneaky", "email": "sneaky@example.com", "password": "password123",
		"firstName": "A", "lastName": "B", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "alex_star@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w).Message)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "alex_star@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w).Data["token"])

	w = s.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w).Data
	assert.Equal(t, "student", profile["role"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = s.do(http.MethodPut, "/api/v1/users/profile", token, map[string]any{
		"firstName": "Alexandra",
		"profile":   map[string]any{"bio": "<script>x</script>Loves JS", "learningStyle": "auditory"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w).Data
	assert.Equal(t, "Alexandra", updated["firstName"])
	p := updated["profile"].(map[string]any)
	assert.Equal(t, "Loves JS", p["bio"])
	assert.Equal(t, "auditory", p["learningStyle"])

	w = s.do(http.MethodPut, "/api/v1/users/profile", token, map[string]any{
		"profile": map[string]any{"learningStyle": "telepathic"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthGuards(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/v1/badges", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", decode(t, w).Message)

	w = s.do(http.MethodGet, "/api/v1/badges", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid token", decode(t, w).Message)

	token, _ := s.register("sarah_coding", "")
	w = s.do(http.MethodPost, "/api/v1/courses", token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newServer(t)
	token, _ := s.register("mike_tech", "")

	w := s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40104, decode(t, w).Code)

	// logging straight back in yields a usable token
	w = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "mike_tech@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fresh := decode(t, w).Data["token"].(string)
	assert.NotEqual(t, token, fresh)

	w = s.do(http.MethodGet, "/api/v1/users/profile", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLearningJourney(t *testing.T) {
	s := newServer(t)
	instructor, _ := s.register("john_instructor", "instructor")
	student, studentID := s.register("emma_learn", "")
	courseID := s.createCourse(instructor)

	w := s.do(http.MethodGet, "/api/v1/courses?difficulty=beginner&search=javascript", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = s.do(http.MethodGet, "/api/v1/courses/"+courseID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test", decode(t, w).Data["instructor"].(map[string]any)["firstName"])

	w = s.do(http.MethodGet, "/api/v1/progress/"+courseID, student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, courseID, decode(t, w).Data["courseId"])

	w = s.do(http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", student, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	enrolled, err := s.store.Users().GetUser(context.Background(), studentID)
	require.NoError(t, err)
	assert.Equal(t, []string{courseID}, enrolled.EnrolledCourses)
	course, err := s.store.Courses().GetCourse(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, []string{studentID}, course.EnrolledStudents)

	w = s.do(http.MethodPost, "/api/v1/courses/missing/enroll", student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/progress/"+courseID+"/module/0", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 50.0, decode(t, w).Data["overallProgress"], 0.001)

	w = s.do(http.MethodPost, "/api/v1/progress/"+courseID+"/module/7", student, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/progress/"+courseID+"/module/abc", student, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/progress/"+courseID+"/quiz", student, map[string]any{
		"moduleIndex": 0, "quizIndex": 0, "score": 10, "maxScore": 10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quiz := decode(t, w).Data
	assert.Equal(t, "Quiz score recorded", quiz["message"])
	assert.EqualValues(t, 20, quiz["pointsEarned"])
	assert.Len(t, quiz["badgesEarned"], 1)

	w = s.do(http.MethodPost, "/api/v1/progress/"+courseID+"/quiz", student, map[string]any{
		"moduleIndex": 0, "quizIndex": 0, "score": 11, "maxScore": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/progress/"+courseID+"/module/1", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w).Data["isCompleted"])

	w = s.do(http.MethodGet, "/api/v1/progress/"+courseID, student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StateCompleted, decode(t, w).Data["state"])

	// 50 + 50 + 200 + 20
	w = s.do(http.MethodGet, "/api/v1/users/profile", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	g := decode(t, w).Data["gamification"].(map[string]any)
	assert.EqualValues(t, 320, g["totalPoints"])
	assert.EqualValues(t, 4, g["level"])

	w = s.do(http.MethodGet, "/api/v1/badges", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	names := []string{}
	for _, b := range decodeList(t, w) {
		names = append(names, b["name"].(string))
	}
	assert.ElementsMatch(t, []string{"First Steps", "Perfect Score", "Course Completed"}, names)

	w = s.do(http.MethodGet, "/api/v1/analytics/dashboard", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode(t, w).Data
	assert.EqualValues(t, 320, dash["user"].(map[string]any)["points"])
	courses := dash["courses"].(map[string]any)
	assert.EqualValues(t, 0, courses["enrolled"])
	assert.EqualValues(t, 1, courses["completed"])
	assert.EqualValues(t, 100, courses["averageProgress"])
	assert.NotEmpty(t, dash["recentActivity"])

	w = s.do(http.MethodGet, "/api/v1/leaderboard", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decodeList(t, w)
	require.NotEmpty(t, board)
	assert.EqualValues(t, 1, board[0]["rank"])
	assert.Equal(t, studentID, board[0]["user"].(map[string]any)["id"])
	assert.EqualValues(t, 320, board[0]["points"])

	w = s.do(http.MethodPost, "/api/v1/courses/"+courseID+"/ratings", student, map[string]any{"rating": 4, "review": "solid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 4.0, decode(t, w).Data["averageRating"], 0.001)

	w = s.do(http.MethodPost, "/api/v1/courses/"+courseID+"/ratings", instructor, map[string]any{"rating": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeedbackReview(t *testing.T) {
	s := newServer(t)
	student, _ := s.register("david_code", "")
	admin := s.seedAdmin()

	w := s.do(http.MethodPost, "/api/v1/feedback", student, map[string]any{
		"type": "bug", "rating": 2, "subject": "Quiz stuck", "message": "The quiz page hangs", "category": "performance",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	feedbackID := decode(t, w).Data["feedback"].(map[string]any)["id"].(string)

	w = s.do(http.MethodPost, "/api/v1/feedback", student, map[string]any{
		"type": "bug", "rating": 9, "subject": "x", "message": "y",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/feedback/my", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = s.do(http.MethodGet, "/api/v1/admin/feedback?type=bug&rating=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data["items"], 1)

	w = s.do(http.MethodGet, "/api/v1/admin/feedback?type=course", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data["items"], 0)

	w = s.do(http.MethodPatch, "/api/v1/admin/feedback/"+feedbackID, admin, map[string]any{
		"status": "resolved", "adminResponse": "Fixed in the latest release",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.FeedbackResolved, decode(t, w).Data["status"])

	w = s.do(http.MethodPatch, "/api/v1/admin/feedback/missing", admin, map[string]any{"status": "reviewed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w).Data
	assert.EqualValues(t, 2, stats["totalUsers"])
	assert.Len(t, stats["recentUsers"], 2)
}

func TestSurveys(t *testing.T) {
	s := newServer(t)
	student, _ := s.register("lisa_dev", "")
	admin := s.seedAdmin()

	w := s.do(http.MethodPost, "/api/v1/surveys", student, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/surveys", admin, map[string]any{
		"title": "Platform Survey", "type": "satisfaction", "targetAudience": "students",
		"questions": []map[string]any{
			{"question": "How satisfied are you?", "type": "rating", "required": true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	surveyID := decode(t, w).Data["id"].(string)

	w = s.do(http.MethodPost, "/api/v1/surveys", admin, map[string]any{
		"title": "Instructor Survey", "type": "effectiveness", "targetAudience": "instructors",
		"questions": []map[string]any{{"question": "Tools?", "type": "text"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/surveys/active", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := decodeList(t, w)
	require.Len(t, active, 1)
	assert.Equal(t, surveyID, active[0]["id"])

	w = s.do(http.MethodPost, "/api/v1/surveys/"+surveyID+"/response", student, map[string]any{
		"responses": []map[string]any{{"questionIndex": 3, "answer": 5}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/surveys/"+surveyID+"/response", student, map[string]any{
		"responses": []map[string]any{{"questionIndex": 0, "answer": 5}},
		"timeSpent": 42,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/surveys/active", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	w = s.do(http.MethodPost, "/api/v1/surveys/"+surveyID+"/response", student, map[string]any{
		"responses": []map[string]any{{"questionIndex": 0, "answer": 4}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEffectivenessAndPlatformAnalytics(t *testing.T) {
	s := newServer(t)
	student, _ := s.register("sarah_coding", "")
	admin := s.seedAdmin()

	w := s.do(http.MethodPost, "/api/v1/analytics/effectiveness/update", student, map[string]any{
		"courseId": "course-1", "preAssessmentScore": 50, "postAssessmentScore": 75, "satisfactionScore": 4,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	record := decode(t, w).Data
	assert.InDelta(t, 50.0, record["knowledgeImprovement"], 0.001)
	assert.InDelta(t, 4.0, record["gamificationImpact"].(map[string]any)["motivationLevel"], 0.001)

	w = s.do(http.MethodPost, "/api/v1/analytics/effectiveness/update", student, map[string]any{
		"courseId": "course-1", "postAssessmentScore": 100,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 100.0, decode(t, w).Data["knowledgeImprovement"], 0.001)

	w = s.do(http.MethodGet, "/api/v1/analytics/effectiveness?courseId=course-1", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = s.do(http.MethodGet, "/api/v1/admin/analytics/platform", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	platform := decode(t, w).Data
	users := platform["users"].(map[string]any)
	assert.EqualValues(t, 2, users["total"])
	assert.EqualValues(t, 2, users["active"])
	assert.EqualValues(t, 100, users["engagementRate"])
	assert.EqualValues(t, 0, platform["courses"].(map[string]any)["completionRate"])
	assert.InDelta(t, 4.0, platform["effectiveness"].(map[string]any)["avgSatisfaction"], 0.001)
}

func TestGamificationRules(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/v1/gamification/rules", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rules := decode(t, w).Data
	assert.EqualValues(t, 50, rules["points"].(map[string]any)["perModule"])
	assert.Len(t, rules["badges"], 5)
}
