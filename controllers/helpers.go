package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/middleware"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

// paginate returns the page slice of items.
func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+pageSize, len(items))]
}

func getUserID(ctx *gin.Context) (string, bool) {
	id := ctx.GetString(middleware.ContextUserIDKey)
	return id, id != ""
}

func getRole(ctx *gin.Context) string {
	return ctx.GetString(middleware.ContextRoleKey)
}

// respondServiceError maps a service error kind onto the HTTP status and app code.
func respondServiceError(ctx *gin.Context, log *zap.Logger, err error) {
	var msg string
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Message
	}
	switch services.KindOf(err) {
	case services.KindNotFound:
		utils.Error(ctx, http.StatusNotFound, 40410, msg)
	case services.KindConflict:
		utils.Error(ctx, http.StatusConflict, 40901, msg)
	case services.KindValidation:
		utils.Error(ctx, http.StatusBadRequest, 40001, msg)
	default:
		log.Error("request failed",
			zap.String("path", ctx.FullPath()),
			zap.String("user_id", ctx.GetString(middleware.ContextUserIDKey)),
			zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50000, "Internal server error")
	}
}

// respondLookupError answers a failed store read, using notFound for store.ErrNotFound.
func respondLookupError(ctx *gin.Context, log *zap.Logger, err error, notFound *services.Error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		respondServiceError(ctx, log, notFound)
		return
	}
	respondServiceError(ctx, log, services.Internal(op, err))
}

// userResponse is the public view of a user. The password hash never leaves the server.
func userResponse(u models.User) gin.H {
	return gin.H{
		"id":               u.ID,
		"username":         u.Username,
		"email":            u.Email,
		"firstName":        u.FirstName,
		"lastName":         u.LastName,
		"role":             u.Role,
		"profile":          u.Profile,
		"gamification":     u.Gamification,
		"enrolledCourses":  u.EnrolledCourses,
		"completedCourses": u.CompletedCourses,
		"createdAt":        u.CreatedAt,
	}
}

// serveCached writes a cached envelope when present.
func serveCached(ctx *gin.Context, key string) bool {
	b, ok := utils.CacheGetBytes(key)
	if !ok {
		return false
	}
	ctx.Data(http.StatusOK, "application/json", b)
	return true
}

// successCached answers with data and stores the same envelope under key.
func successCached(ctx *gin.Context, key string, data any, ttl time.Duration) {
	utils.CacheSetJSON(key, utils.CachedResponse{Code: 0, Message: "success", Data: data}, ttl)
	utils.Success(ctx, data)
}
