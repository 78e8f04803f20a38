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

type userStore struct {
	col *mongo.Collection
}

func (s userStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"_id": id})
}

func (s userStore) FindUserByLogin(ctx context.Context, email, username string) (*models.User, error) {
	filter, ok := loginFilter(email, username)
	if !ok {
		return nil, store.ErrNotFound
	}
	return findOne[models.User](ctx, s.col, filter)
}

func (s userStore) UpsertUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return replace(ctx, s.col, u.ID, u)
}

func (s userStore) QueryUsers(ctx context.Context, q store.UserQuery) ([]models.User, error) {
	opts := options.Find()
	if q.OrderByPoints {
		opts.SetSort(bson.D{{Key: "gamification.totalPoints", Value: -1}, {Key: "createdAt", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return findAll[models.User](ctx, s.col, userFilter(q), opts)
}

func (s userStore) CountUsers(ctx context.Context, q store.UserQuery) (int64, error) {
	n, err := s.col.CountDocuments(ctx, userFilter(q))
	return n, translate(err)
}

func (s userStore) AveragePoints(ctx context.Context) (float64, error) {
	return average(ctx, s.col, "gamification.totalPoints")
}

func loginFilter(email, username string) (bson.M, bool) {
	switch {
	case email != "" && username != "":
		return bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"username": username}}}, true
	case email != "":
		return bson.M{"email": email}, true
	case username != "":
		return bson.M{"username": username}, true
	default:
		return nil, false
	}
}

func userFilter(q store.UserQuery) bson.M {
	filter := bson.M{}
	if !q.ActiveSince.IsZero() {
		filter["gamification.lastActivityDate"] = bson.M{"$gte": q.ActiveSince}
	}
	return filter
}
