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

type feedbackStore struct {
	col *mongo.Collection
}

func (s feedbackStore) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	return findOne[models.Feedback](ctx, s.col, bson.M{"_id": id})
}

func (s feedbackStore) UpsertFeedback(ctx context.Context, f *models.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	return replace(ctx, s.col, f.ID, f)
}

func (s feedbackStore) QueryFeedback(ctx context.Context, q store.FeedbackQuery) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Feedback](ctx, s.col, feedbackFilter(q), opts)
}

func (s feedbackStore) AverageRating(ctx context.Context) (float64, error) {
	return average(ctx, s.col, "rating")
}

func feedbackFilter(q store.FeedbackQuery) bson.M {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user"] = q.UserID
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Rating > 0 {
		filter["rating"] = q.Rating
	}
	return filter
}
