package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type feedbackStore struct {
	db *gorm.DB
}

func (s feedbackStore) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	var f models.Feedback
	if err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
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
	return save(ctx, s.db, f)
}

func (s feedbackStore) QueryFeedback(ctx context.Context, q store.FeedbackQuery) ([]models.Feedback, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Rating > 0 {
		query = query.Where("rating = ?", q.Rating)
	}
	var list []models.Feedback
	if err := query.Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s feedbackStore) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := s.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, translate(err)
}
