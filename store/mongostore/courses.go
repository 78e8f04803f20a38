package mongostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type courseStore struct {
	col *mongo.Collection
}

func (s courseStore) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return findOne[models.Course](ctx, s.col, bson.M{"_id": id})
}

func (s courseStore) UpsertCourse(ctx context.Context, c *models.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return replace(ctx, s.col, c.ID, c)
}

func (s courseStore) QueryCourses(ctx context.Context, q store.CourseQuery) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Course](ctx, s.col, courseFilter(q), opts)
}

func (s courseStore) CountCourses(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	return n, translate(err)
}

func (s courseStore) TotalEnrollments(ctx context.Context) (int64, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$enrolledStudents", bson.A{}}}}}}}}},
		}}},
	})
	if err != nil {
		return 0, translate(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, translate(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// courseFilter builds the listing filter; search is a case-insensitive literal match.
func courseFilter(q store.CourseQuery) bson.M {
	filter := bson.M{}
	if q.PublishedOnly {
		filter["isPublished"] = true
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Difficulty != "" {
		filter["difficulty"] = q.Difficulty
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"title": pattern}, bson.M{"description": pattern}}
	}
	return filter
}
