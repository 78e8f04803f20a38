package seed

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/store/sqlstore"
	"github.com/cppla/eduquest/utils"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{StoreDriver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	s, err := sqlstore.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestRunCreatesDemoData(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sum, err := New(s, nil, 42).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(demoUsers), sum.Users)
	assert.Equal(t, 5, sum.Courses)
	assert.Equal(t, 3, sum.Surveys)

	alex, err := s.Users().FindUserByLogin(ctx, "alex@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, 2850, alex.Gamification.TotalPoints)
	assert.Equal(t, 29, alex.Gamification.Level)
	assert.Len(t, alex.Gamification.Badges, 4)
	assert.True(t, utils.CheckPassword(alex.PasswordHash, DemoPassword))
	assert.NotEmpty(t, alex.EnrolledCourses)

	john, err := s.Users().FindUserByLogin(ctx, "john@example.com", "")
	require.NoError(t, err)
	jane, err := s.Users().FindUserByLogin(ctx, "jane@example.com", "")
	require.NoError(t, err)

	courses, err := s.Courses().QueryCourses(ctx, store.CourseQuery{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, courses, 5)
	owners := map[string]int{}
	enrolled := 0
	for _, c := range courses {
		owners[c.Instructor]++
		enrolled += len(c.EnrolledStudents)
		for _, m := range c.Modules {
			for _, q := range m.Quizzes {
				assert.Equal(t, 10, q.Points)
				assert.Less(t, q.CorrectAnswer, len(q.Options))
			}
		}
	}
	assert.Equal(t, 3, owners[john.ID])
	assert.Equal(t, 2, owners[jane.ID])

	progress, err := s.Progress().CountProgress(ctx, store.ProgressQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, sum.Progress, progress)
	assert.Equal(t, sum.Progress, enrolled)

	completed, err := s.Progress().CountProgress(ctx, store.ProgressQuery{CompletedOnly: true})
	require.NoError(t, err)
	assert.Zero(t, completed)
}

func TestRunProgressStaysWithinBounds(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := New(s, nil, 7).Run(ctx)
	require.NoError(t, err)

	students, err := s.Users().QueryUsers(ctx, store.UserQuery{})
	require.NoError(t, err)
	for _, u := range students {
		if u.Role != models.RoleStudent {
			assert.Empty(t, u.EnrolledCourses)
			continue
		}
		assert.GreaterOrEqual(t, len(u.EnrolledCourses), 1)
		assert.LessOrEqual(t, len(u.EnrolledCourses), 3)

		list, err := s.Progress().QueryProgress(ctx, store.ProgressQuery{UserID: u.ID})
		require.NoError(t, err)
		assert.Len(t, list, len(u.EnrolledCourses))
		for _, p := range list {
			assert.GreaterOrEqual(t, p.TimeSpent, 60)
			assert.Less(t, p.TimeSpent, 360)
			assert.Less(t, p.OverallProgress, 100.0)
			for i, m := range p.CompletedModules {
				assert.Equal(t, i, m)
			}
		}
	}
}

func TestRunKeepsExistingSurveys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, err := New(s, nil, 1).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Surveys)

	second, err := New(s, nil, 2).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Surveys)
	assert.Equal(t, len(demoUsers), second.Users)

	surveys, err := s.Surveys().QuerySurveys(ctx, store.SurveyQuery{})
	require.NoError(t, err)
	assert.Len(t, surveys, 3)

	users, err := s.Users().CountUsers(ctx, store.UserQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, len(demoUsers), users)
}
