package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/eduquest/gamification"
	"github.com/cppla/eduquest/metrics"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

// LearningService applies enrollment, module completion, quiz attempts and
// logins to the Progress, User and Course records.
//
// Records are written one after another without a transaction. When a later
// write fails the earlier ones stay and the call returns an internal error.
type LearningService struct {
	users    store.UserStore
	courses  store.CourseStore
	progress store.ProgressStore
	recorder *Recorder
	log      *zap.Logger
	now      func() time.Time
}

// NewLearningService wires the service to its stores and recorder.
func NewLearningService(s store.Store, recorder *Recorder, log *zap.Logger) *LearningService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LearningService{
		users:    s.Users(),
		courses:  s.Courses(),
		progress: s.Progress(),
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// QuizOutcome is the result of a recorded quiz attempt.
type QuizOutcome struct {
	Progress     *models.Progress     `json:"progress"`
	PointsEarned int                  `json:"pointsEarned"`
	BadgesEarned []gamification.Badge `json:"badgesEarned"`
}

// Enroll adds the user to the course and creates the Progress record if absent.
func (s *LearningService) Enroll(ctx context.Context, in EnrollInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourse(ctx, in.CourseID)
	if err != nil {
		return nil, lookupError(err, ErrCourseNotFound, "load course")
	}
	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "load user")
	}
	if user.IsEnrolled(course.ID) {
		return nil, ErrAlreadyEnrolled
	}
	if user.HasCompleted(course.ID) {
		return nil, ErrAlreadyCompleted
	}

	if course.AddStudent(user.ID) {
		if err := s.courses.UpsertCourse(ctx, course); err != nil {
			return nil, Internal("save course", err)
		}
	}

	user.Enroll(course.ID)
	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, Internal("save user", err)
	}

	if _, err := s.progress.GetProgress(ctx, user.ID, course.ID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, Internal("load progress", err)
		}
		p := models.NewProgress(user.ID, course.ID, s.now())
		if err := s.progress.UpsertProgress(ctx, p); err != nil && !errors.Is(err, store.ErrDuplicate) {
			return nil, Internal("create progress", err)
		}
	}

	s.recorder.Track(ctx, user.ID, models.ActionCourseEnroll, map[string]any{
		"courseId":    course.ID,
		"courseTitle": course.Title,
	})
	return user, nil
}

// CompleteModule marks a module complete and applies the point, badge and
// course completion rules.
func (s *LearningService) CompleteModule(ctx context.Context, in CompleteModuleInput) (*models.Progress, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	progress, err := s.progress.GetProgress(ctx, in.UserID, in.CourseID)
	if err != nil {
		return nil, lookupError(err, ErrProgressNotFound, "load progress")
	}
	course, err := s.courses.GetCourse(ctx, in.CourseID)
	if err != nil {
		return nil, lookupError(err, ErrCourseNotFound, "load course")
	}
	if !course.HasModule(in.ModuleIndex) {
		return nil, Validation("Module index out of range")
	}

	now := s.now()
	t := progress.CompleteModule(in.ModuleIndex, course.ModuleCount(), now)
	if err := s.progress.UpsertProgress(ctx, progress); err != nil {
		return nil, Internal("save progress", err)
	}

	if t.NewlyCompleted || t.CourseCompleted {
		user, err := s.users.GetUser(ctx, in.UserID)
		if err != nil {
			return nil, lookupError(err, ErrUserNotFound, "load user")
		}
		if t.NewlyCompleted {
			awardPoints(user, gamification.PointsPerModule, "module")
			if t.FirstModule {
				awardBadge(user, gamification.FirstSteps, now)
			}
		}
		if t.CourseCompleted {
			user.MarkCourseCompleted(course.ID)
			awardPoints(user, gamification.CourseCompletionBonus, "course")
			awardBadge(user, gamification.CourseCompleted, now)
		}
		if err := s.users.UpsertUser(ctx, user); err != nil {
			return nil, Internal("save user", err)
		}
		if t.CourseCompleted {
			s.log.Info("course completed",
				zap.String("user_id", user.ID),
				zap.String("course_id", course.ID),
				zap.Int("total_points", user.Gamification.TotalPoints))
		}
	}

	s.recorder.Track(ctx, in.UserID, models.ActionModuleComplete, map[string]any{
		"courseId":    in.CourseID,
		"moduleIndex": in.ModuleIndex,
	})
	return progress, nil
}

// RecordQuiz appends a quiz attempt and awards quiz points and the Perfect Score badge.
func (s *LearningService) RecordQuiz(ctx context.Context, in RecordQuizInput) (*QuizOutcome, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	progress, err := s.progress.GetProgress(ctx, in.UserID, in.CourseID)
	if err != nil {
		return nil, lookupError(err, ErrProgressNotFound, "load progress")
	}
	course, err := s.courses.GetCourse(ctx, in.CourseID)
	if err != nil {
		return nil, lookupError(err, ErrCourseNotFound, "load course")
	}
	if !course.HasQuiz(in.ModuleIndex, in.QuizIndex) {
		return nil, Validation("Quiz not found in module")
	}

	now := s.now()
	progress.RecordQuiz(in.ModuleIndex, in.QuizIndex, in.Score, in.MaxScore, now)
	if err := s.progress.UpsertProgress(ctx, progress); err != nil {
		return nil, Internal("save progress", err)
	}

	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "load user")
	}
	out := &QuizOutcome{
		Progress:     progress,
		PointsEarned: gamification.QuizPoints(in.Score, in.MaxScore),
		BadgesEarned: []gamification.Badge{},
	}
	awardPoints(user, out.PointsEarned, "quiz")
	if in.Score == in.MaxScore && awardBadge(user, gamification.PerfectScore, now) {
		out.BadgesEarned = append(out.BadgesEarned, gamification.PerfectScore)
	}
	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, Internal("save user", err)
	}

	s.recorder.Track(ctx, in.UserID, models.ActionQuizComplete, map[string]any{
		"courseId":     in.CourseID,
		"moduleIndex":  in.ModuleIndex,
		"quizIndex":    in.QuizIndex,
		"score":        in.Score,
		"maxScore":     in.MaxScore,
		"pointsEarned": out.PointsEarned,
	})
	return out, nil
}

// RecordLogin advances the login streak of an authenticated user.
func (s *LearningService) RecordLogin(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, Validation("UserID is required")
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "load user")
	}

	for _, b := range gamification.UpdateStreak(user, s.now()) {
		metrics.BadgesAwardedTotal.WithLabelValues(b.Name).Inc()
	}
	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, Internal("save user", err)
	}

	s.recorder.Track(ctx, user.ID, models.ActionUserLogin, map[string]any{
		"streakDays": user.Gamification.StreakDays,
	})
	return user, nil
}

func awardPoints(u *models.User, amount int, reason string) {
	gamification.AwardPoints(u, amount)
	if amount > 0 {
		metrics.PointsAwardedTotal.WithLabelValues(reason).Add(float64(amount))
	}
}

func awardBadge(u *models.User, b gamification.Badge, now time.Time) bool {
	if !gamification.AwardBadge(u, b, now) {
		return false
	}
	metrics.BadgesAwardedTotal.WithLabelValues(b.Name).Inc()
	return true
}

// lookupError maps store.ErrNotFound to notFound and anything else to an internal error.
func lookupError(err error, notFound *Error, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return Internal(op, err)
}
