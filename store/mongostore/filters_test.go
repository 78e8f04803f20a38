package mongostore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/cppla/eduquest/store"
)

func TestCourseFilter(t *testing.T) {
	f := courseFilter(store.CourseQuery{
		Category:      "Programming",
		Difficulty:    "beginner",
		Search:        " c++ ",
		PublishedOnly: true,
	})

	assert.Equal(t, true, f["isPublished"])
	assert.Equal(t, "Programming", f["category"])
	assert.Equal(t, "beginner", f["difficulty"])

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	title := or[0].(bson.M)["title"].(bson.M)
	assert.Equal(t, `c\+\+`, title["$regex"])
	assert.Equal(t, "i", title["$options"])
}

func TestCourseFilterEmpty(t *testing.T) {
	assert.Empty(t, courseFilter(store.CourseQuery{}))
}

func TestLoginFilter(t *testing.T) {
	_, ok := loginFilter("", "")
	assert.False(t, ok)

	f, ok := loginFilter("a@b.c", "")
	require.True(t, ok)
	assert.Equal(t, bson.M{"email": "a@b.c"}, f)

	f, ok = loginFilter("a@b.c", "alice")
	require.True(t, ok)
	assert.Len(t, f["$or"], 2)
}

func TestUserFilterActiveSince(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := userFilter(store.UserQuery{ActiveSince: since})
	assert.Equal(t, bson.M{"gamification.lastActivityDate": bson.M{"$gte": since}}, f)
	assert.Empty(t, userFilter(store.UserQuery{}))
}

func TestSurveyFilter(t *testing.T) {
	f := surveyFilter(store.SurveyQuery{
		ActiveOnly: true,
		Audiences:  []string{"all", "students"},
		ExcludeIDs: []string{"s1"},
	})
	assert.Equal(t, true, f["isActive"])
	assert.Equal(t, bson.M{"$in": []string{"all", "students"}}, f["targetAudience"])
	assert.Equal(t, bson.M{"$nin": []string{"s1"}}, f["_id"])
}

func TestFeedbackAndProgressFilters(t *testing.T) {
	f := feedbackFilter(store.FeedbackQuery{Type: "bug", Rating: 4})
	assert.Equal(t, bson.M{"type": "bug", "rating": 4}, f)

	p := progressFilter(store.ProgressQuery{UserID: "u1", CompletedOnly: true})
	assert.Equal(t, bson.M{"user": "u1", "isCompleted": true}, p)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), store.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
