package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type progressStore struct {
	db *gorm.DB
}

func (s progressStore) GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error) {
	var p models.Progress
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s progressStore) UpsertProgress(ctx context.Context, p *models.Progress) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return save(ctx, s.db, p)
}

func (s progressStore) filtered(ctx context.Context, q store.ProgressQuery) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Progress{})
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.CompletedOnly {
		query = query.Where("is_completed = ?", true)
	}
	return query
}

func (s progressStore) QueryProgress(ctx context.Context, q store.ProgressQuery) ([]models.Progress, error) {
	var list []models.Progress
	if err := s.filtered(ctx, q).Order("last_accessed DESC").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s progressStore) CountProgress(ctx context.Context, q store.ProgressQuery) (int64, error) {
	var n int64
	err := s.filtered(ctx, q).Count(&n).Error
	return n, translate(err)
}
