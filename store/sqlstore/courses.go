package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type courseStore struct {
	db *gorm.DB
}

func (s courseStore) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
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
	return save(ctx, s.db, c)
}

func (s courseStore) QueryCourses(ctx context.Context, q store.CourseQuery) ([]models.Course, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if q.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Difficulty != "" {
		query = query.Where("difficulty = ?", q.Difficulty)
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, translate(err)
	}
	return courses, nil
}

func (s courseStore) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Course{}).Count(&n).Error
	return n, translate(err)
}

func (s courseStore) TotalEnrollments(ctx context.Context) (int64, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Select("id", "enrolled_students").Find(&courses).Error; err != nil {
		return 0, translate(err)
	}
	var total int64
	for _, c := range courses {
		total += int64(len(c.EnrolledStudents))
	}
	return total, nil
}
