package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type surveyStore struct {
	surveys   *mongo.Collection
	responses *mongo.Collection
}

func (s surveyStore) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	return findOne[models.Survey](ctx, s.surveys, bson.M{"_id": id})
}

func (s surveyStore) UpsertSurvey(ctx context.Context, sv *models.Survey) error {
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	}
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now()
	}
	return replace(ctx, s.surveys, sv.ID, sv)
}

func (s surveyStore) QuerySurveys(ctx context.Context, q store.SurveyQuery) ([]models.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Survey](ctx, s.surveys, surveyFilter(q), opts)
}

func (s surveyStore) InsertResponse(ctx context.Context, r *models.SurveyResponse) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	_, err := s.responses.InsertOne(ctx, r)
	return translate(err)
}

func (s surveyStore) RespondedSurveyIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.responses.Distinct(ctx, "survey", bson.M{"user": userID}).Decode(&ids); err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func surveyFilter(q store.SurveyQuery) bson.M {
	filter := bson.M{}
	if q.ActiveOnly {
		filter["isActive"] = true
	}
	if len(q.Audiences) > 0 {
		filter["targetAudience"] = bson.M{"$in": q.Audiences}
	}
	if len(q.ExcludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": q.ExcludeIDs}
	}
	return filter
}
