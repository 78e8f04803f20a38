// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cppla/eduquest/store"
)

// Collection names follow the pluralized document model names.
const (
	colUsers           = "users"
	colCourses         = "courses"
	colProgress        = "progresses"
	colAnalytics       = "analytics"
	colFeedback        = "feedbacks"
	colSurveys         = "surveys"
	colSurveyResponses = "surveyresponses"
	colEffectiveness   = "learningeffectivenesses"
)

// Store is the MongoDB-backed store.Store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// New binds the store to database on client and ensures indexes exist.
func New(ctx context.Context, client *mongo.Client, database string) (*Store, error) {
	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "gamification.totalPoints", Value: -1}}},
		},
		colProgress: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "course", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colAnalytics: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		colSurveyResponses: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "survey", Value: 1}}},
		},
		colEffectiveness: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "course", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Users() store.UserStore {
	return userStore{s.db.Collection(colUsers)}
}

func (s *Store) Courses() store.CourseStore {
	return courseStore{s.db.Collection(colCourses)}
}

func (s *Store) Progress() store.ProgressStore {
	return progressStore{s.db.Collection(colProgress)}
}

func (s *Store) Analytics() store.AnalyticsStore {
	return analyticsStore{s.db.Collection(colAnalytics)}
}

func (s *Store) Feedback() store.FeedbackStore {
	return feedbackStore{s.db.Collection(colFeedback)}
}

func (s *Store) Surveys() store.SurveyStore {
	return surveyStore{surveys: s.db.Collection(colSurveys), responses: s.db.Collection(colSurveyResponses)}
}

func (s *Store) Effectiveness() store.EffectivenessStore {
	return effectivenessStore{s.db.Collection(colEffectiveness)}
}

// Reset deletes all users, courses and progress records.
func (s *Store) Reset(ctx context.Context) error {
	for _, name := range []string{colUsers, colCourses, colProgress} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("reset %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

// replace upserts doc under id.
func replace(ctx context.Context, col *mongo.Collection, id string, doc any) error {
	_, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return translate(err)
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptionsBuilder) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// average runs a $group/$avg over field and returns 0 for empty collections.
func average(ctx context.Context, col *mongo.Collection, field string) (float64, error) {
	cursor, err := col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: nil}, {Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + field}}}}}},
	})
	if err != nil {
		return 0, translate(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, translate(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}
