package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/middleware"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

// AuthController handles registration, login, logout and the caller's profile.
type AuthController struct {
	users    store.UserStore
	learning *services.LearningService
	recorder *services.Recorder
	log      *zap.Logger
}

// NewAuthController creates an AuthController.
func NewAuthController(s store.Store, learning *services.LearningService, recorder *services.Recorder, log *zap.Logger) *AuthController {
	return &AuthController{users: s.Users(), learning: learning, recorder: recorder, log: log}
}

// Register creates a local account with a bcrypt hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username  string `json:"username" binding:"required,min=3,max=64"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6,max=72"`
		FirstName string `json:"firstName" binding:"required,max=64"`
		LastName  string `json:"lastName" binding:"required,max=64"`
		Role      string `json:"role" binding:"omitempty,oneof=student instructor"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username may only contain letters, digits, '-' and '_'")
		return
	}

	// Anti-abuse: ban check, cooldown, per-IP daily limit
	ip := ctx.ClientIP()
	if utils.RegistrationIsBanned(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42920, "registration temporarily blocked for this IP")
		return
	}
	if !utils.RegistrationCooldownTry(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "too many requests, please retry later")
		return
	}
	if !utils.RegistrationDailyLimitCheck(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42921, "daily registration limit reached")
		return
	}

	if _, err := a.users.FindUserByLogin(ctx, req.Email, req.Username); err == nil {
		utils.RegistrationFailed(ip)
		utils.Error(ctx, http.StatusConflict, 40901, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondServiceError(ctx, a.log, services.Internal("lookup user", err))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.NewUser(req.Username, req.Email, hash,
		utils.SanitizeText(req.FirstName), utils.SanitizeText(req.LastName), req.Role, time.Now())
	user.RegisterIP = ip
	if err := a.users.UpsertUser(ctx, user); err != nil {
		utils.RegistrationFailed(ip)
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40901, "User already exists")
			return
		}
		respondServiceError(ctx, a.log, services.Internal("create user", err))
		return
	}
	utils.RegistrationDailyIncrement(ip)

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	a.recorder.Track(ctx, user.ID, models.ActionUserRegister, map[string]any{"role": user.Role})
	utils.Created(ctx, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    userResponse(*user),
	})
}

// Login verifies credentials, advances the login streak and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.users.FindUserByLogin(ctx, strings.ToLower(strings.TrimSpace(req.Email)), "")
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			respondServiceError(ctx, a.log, services.Internal("lookup user", err))
			return
		}
		utils.Error(ctx, http.StatusUnauthorized, 40106, "Invalid credentials")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "Invalid credentials")
		return
	}

	user, err = a.learning.RecordLogin(ctx, user.ID)
	if err != nil {
		respondServiceError(ctx, a.log, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userResponse(*user),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	expiresAt := time.Now().Add(utils.TokenTTL())
	if v, exists := ctx.Get(middleware.ContextClaimsKey); exists {
		if claims, ok := v.(*utils.Claims); ok && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Profile returns the authenticated user.
func (a *AuthController) Profile(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		respondLookupError(ctx, a.log, err, services.ErrUserNotFound, "load user")
		return
	}
	utils.Success(ctx, userResponse(*user))
}

// UpdateProfile changes the caller's name and profile fields. Absent fields are kept.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	type profileRequest struct {
		Avatar        *string `json:"avatar" binding:"omitempty,max=512"`
		Bio           *string `json:"bio" binding:"omitempty,max=500"`
		LearningStyle *string `json:"learningStyle" binding:"omitempty,oneof=visual auditory kinesthetic reading"`
	}
	type request struct {
		FirstName *string         `json:"firstName" binding:"omitempty,max=64"`
		LastName  *string         `json:"lastName" binding:"omitempty,max=64"`
		Profile   *profileRequest `json:"profile"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		respondLookupError(ctx, a.log, err, services.ErrUserNotFound, "load user")
		return
	}

	if req.FirstName != nil {
		user.FirstName = utils.SanitizeText(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = utils.SanitizeText(*req.LastName)
	}
	if p := req.Profile; p != nil {
		if p.Avatar != nil {
			user.Profile.Avatar = strings.TrimSpace(*p.Avatar)
		}
		if p.Bio != nil {
			user.Profile.Bio = utils.SanitizeText(*p.Bio)
		}
		if p.LearningStyle != nil {
			user.Profile.LearningStyle = *p.LearningStyle
		}
	}
	user.UpdatedAt = time.Now()

	if err := a.users.UpsertUser(ctx, user); err != nil {
		respondServiceError(ctx, a.log, services.Internal("save user", err))
		return
	}
	utils.Success(ctx, userResponse(*user))
}

func validUsername(s string) bool {
	for _, r := range s {
		if r == '-' || r == '_' {
			continue
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		return false
	}
	return true
}
