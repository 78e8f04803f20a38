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

type analyticsStore struct {
	col *mongo.Collection
}

func (s analyticsStore) AppendEvent(ctx context.Context, e *models.AnalyticsEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := s.col.InsertOne(ctx, e)
	return translate(err)
}

func (s analyticsStore) QueryEvents(ctx context.Context, q store.EventQuery) ([]models.AnalyticsEvent, error) {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user"] = q.UserID
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return findAll[models.AnalyticsEvent](ctx, s.col, filter, opts)
}
