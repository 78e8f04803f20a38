// Package seed loads demo users, courses, enrollments and the default surveys.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cppla/eduquest/gamification"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/utils"
)

// Summary counts what a run created.
type Summary struct {
	Users    int `json:"users"`
	Courses  int `json:"courses"`
	Progress int `json:"progress"`
	Surveys  int `json:"surveys"`
}

// Seeder resets a store and fills it with demo data.
type Seeder struct {
	s   store.Store
	log *zap.Logger
	rng *rand.Rand
	now func() time.Time
}

// New returns a seeder whose random enrollments are reproducible for a given seed.
func New(s store.Store, log *zap.Logger, seed uint64) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{
		s:   s,
		log: log,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
}

// Run clears users, courses and progress, then recreates the demo data set.
// Default surveys are only inserted when no survey exists yet.
func (sd *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if err := sd.s.Reset(ctx); err != nil {
		return sum, fmt.Errorf("reset store: %w", err)
	}
	sd.log.Info("store cleared")

	users, err := sd.createUsers(ctx)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)

	var students, instructors []*models.User
	for _, u := range users {
		switch u.Role {
		case models.RoleStudent:
			students = append(students, u)
		case models.RoleInstructor:
			instructors = append(instructors, u)
		}
	}

	courses, err := sd.createCourses(ctx, instructors)
	if err != nil {
		return sum, err
	}
	sum.Courses = len(courses)

	sum.Progress, err = sd.enroll(ctx, students, courses)
	if err != nil {
		return sum, err
	}

	sum.Surveys, err = sd.ensureSurveys(ctx)
	if err != nil {
		return sum, err
	}

	sd.log.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("courses", sum.Courses),
		zap.Int("progress", sum.Progress),
		zap.Int("surveys", sum.Surveys),
	)
	return sum, nil
}

func (sd *Seeder) createUsers(ctx context.Context) ([]*models.User, error) {
	hashes := make([]string, len(demoUsers))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range demoUsers {
		g.Go(func() error {
			h, err := utils.HashPassword(DemoPassword)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", demoUsers[i].username, err)
			}
			hashes[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := sd.now()
	users := make([]*models.User, 0, len(demoUsers))
	for i, d := range demoUsers {
		u := models.NewUser(d.username, d.email, hashes[i], d.firstName, d.lastName, d.role, now)
		u.Profile.Bio = d.bio
		u.Profile.LearningStyle = d.learningStyle
		gamification.AwardPoints(u, d.points)
		u.Gamification.StreakDays = d.streakDays
		for _, b := range d.badges {
			gamification.AwardBadge(u, b, now)
		}
		if err := sd.s.Users().UpsertUser(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", d.username, err)
		}
		users = append(users, u)
	}
	sd.log.Info("users created", zap.Int("count", len(users)))
	return users, nil
}

func (sd *Seeder) createCourses(ctx context.Context, instructors []*models.User) ([]*models.Course, error) {
	if len(instructors) == 0 {
		return nil, fmt.Errorf("no instructors to own demo courses")
	}
	now := sd.now()
	data := demoCourses()
	courses := make([]*models.Course, 0, len(data))
	for i := range data {
		c := &data[i]
		c.Instructor = instructors[i%len(instructors)].ID
		c.IsPublished = true
		c.EnrolledStudents = []string{}
		c.Ratings = []models.Rating{}
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := sd.s.Courses().UpsertCourse(ctx, c); err != nil {
			return nil, fmt.Errorf("create course %q: %w", c.Title, err)
		}
		courses = append(courses, c)
	}
	sd.log.Info("courses created", zap.Int("count", len(courses)))
	return courses, nil
}

// enroll signs every student up for the first one to three courses with a
// random prefix of completed modules.
func (sd *Seeder) enroll(ctx context.Context, students []*models.User, courses []*models.Course) (int, error) {
	now := sd.now()
	count := 0
	for _, u := range students {
		n := min(1+sd.rng.IntN(3), len(courses))
		for _, c := range courses[:n] {
			c.AddStudent(u.ID)
			u.Enroll(c.ID)

			p := models.NewProgress(u.ID, c.ID, now)
			done := sd.rng.IntN(c.ModuleCount())
			for m := range done {
				p.CompleteModule(m, c.ModuleCount(), now)
			}
			p.TimeSpent = 60 + sd.rng.IntN(300)
			p.LastAccessed = now.Add(-time.Duration(sd.rng.Int64N(int64(7 * 24 * time.Hour))))
			if err := sd.s.Progress().UpsertProgress(ctx, p); err != nil {
				return count, fmt.Errorf("create progress for %s: %w", u.Username, err)
			}
			count++
		}
		if err := sd.s.Users().UpsertUser(ctx, u); err != nil {
			return count, fmt.Errorf("update user %s: %w", u.Username, err)
		}
	}
	for _, c := range courses {
		if err := sd.s.Courses().UpsertCourse(ctx, c); err != nil {
			return count, fmt.Errorf("update course %q: %w", c.Title, err)
		}
	}
	sd.log.Info("enrollments created", zap.Int("count", count))
	return count, nil
}

func (sd *Seeder) ensureSurveys(ctx context.Context) (int, error) {
	existing, err := sd.s.Surveys().QuerySurveys(ctx, store.SurveyQuery{})
	if err != nil {
		return 0, fmt.Errorf("query surveys: %w", err)
	}
	if len(existing) > 0 {
		sd.log.Info("surveys already present", zap.Int("count", len(existing)))
		return 0, nil
	}
	now := sd.now()
	surveys := defaultSurveys()
	for i := range surveys {
		sv := &surveys[i]
		sv.IsActive = true
		sv.CreatedAt = now
		if err := sd.s.Surveys().UpsertSurvey(ctx, sv); err != nil {
			return i, fmt.Errorf("create survey %q: %w", sv.Title, err)
		}
	}
	sd.log.Info("default surveys created", zap.Int("count", len(surveys)))
	return len(surveys), nil
}
