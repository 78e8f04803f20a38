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

type progressStore struct {
	col *mongo.Collection
}

func (s progressStore) GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error) {
	return findOne[models.Progress](ctx, s.col, bson.M{"user": userID, "course": courseID})
}

func (s progressStore) UpsertProgress(ctx context.Context, p *models.Progress) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return replace(ctx, s.col, p.ID, p)
}

func (s progressStore) QueryProgress(ctx context.Context, q store.ProgressQuery) ([]models.Progress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastAccessed", Value: -1}})
	return findAll[models.Progress](ctx, s.col, progressFilter(q), opts)
}

func (s progressStore) CountProgress(ctx context.Context, q store.ProgressQuery) (int64, error) {
	n, err := s.col.CountDocuments(ctx, progressFilter(q))
	return n, translate(err)
}

func progressFilter(q store.ProgressQuery) bson.M {
	filter := bson.M{}
	if q.UserID != "" {
		filter["user"] = q.UserID
	}
	if q.CompletedOnly {
		filter["isCompleted"] = true
	}
	return filter
}
