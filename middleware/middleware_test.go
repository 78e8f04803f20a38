package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "test-secret", RedisDisabled: true, RateLimitPerMinute: 4})
	os.Exit(m.Run())
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		utils.Success(c, gin.H{"id": c.GetString(ContextUserIDKey), "role": c.GetString(ContextRoleKey)})
	})
	r.GET("/admin", AuthRequired(), RequireRole("admin"), func(c *gin.Context) {
		utils.Success(c, nil)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newEngine()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/me", "garbage").Code)

	token, err := utils.GenerateToken("u-1", "a@b.c", "student", time.Hour)
	require.NoError(t, err)
	w := do(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-1"`)

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", token).Code)
}

func TestRequireRole(t *testing.T) {
	r := newEngine()

	student, err := utils.GenerateToken("u-1", "a@b.c", "student", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", student).Code)

	admin, err := utils.GenerateToken("u-2", "root@b.c", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
}

func TestRateLimitPerScope(t *testing.T) {
	r := gin.New()
	r.GET("/limited", RateLimitMiddleware("test"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// burst is RateLimitPerMinute/2
	assert.Equal(t, http.StatusNoContent, do(r, "/limited", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/limited", "").Code)
	w := do(r, "/limited", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	// 4 per minute refills one token every 15s
	assert.Equal(t, "15", w.Header().Get("Retry-After"))

	other := gin.New()
	other.GET("/limited", RateLimitMiddleware("other"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, do(other, "/limited", "").Code)
}

func TestRequestMetricsPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestMetrics())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(r, "/ping", "").Code)
}
