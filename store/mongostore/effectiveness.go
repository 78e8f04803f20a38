package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type effectivenessStore struct {
	col *mongo.Collection
}

func (s effectivenessStore) GetEffectiveness(ctx context.Context, userID, courseID string) (*models.LearningEffectiveness, error) {
	return findOne[models.LearningEffectiveness](ctx, s.col, bson.M{"user": userID, "course": courseID})
}

func (s effectivenessStore) UpsertEffectiveness(ctx context.Context, e *models.LearningEffectiveness) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return replace(ctx, s.col, e.ID, e)
}

func (s effectivenessStore) QueryEffectiveness(ctx context.Context, q store.EffectivenessQuery) ([]models.LearningEffectiveness, error) {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user"] = q.UserID
	}
	if q.CourseID != "" {
		filter["course"] = q.CourseID
	}
	opts := options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})
	return findAll[models.LearningEffectiveness](ctx, s.col, filter, opts)
}

func (s effectivenessStore) Averages(ctx context.Context) (store.EffectivenessAverages, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avgImprovement", Value: bson.D{{Key: "$avg", Value: "$knowledgeImprovement"}}},
			{Key: "avgSatisfaction", Value: bson.D{{Key: "$avg", Value: "$satisfactionScore"}}},
			{Key: "avgEngagement", Value: bson.D{{Key: "$avg", Value: "$engagementScore"}}},
		}}},
	})
	if err != nil {
		return store.EffectivenessAverages{}, translate(err)
	}
	defer cursor.Close(ctx)

	var rows []store.EffectivenessAverages
	if err := cursor.All(ctx, &rows); err != nil {
		return store.EffectivenessAverages{}, translate(err)
	}
	if len(rows) == 0 {
		return store.EffectivenessAverages{}, nil
	}
	return rows[0], nil
}
