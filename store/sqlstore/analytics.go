package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type analyticsStore struct {
	db *gorm.DB
}

func (s analyticsStore) AppendEvent(ctx context.Context, e *models.AnalyticsEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return translate(s.db.WithContext(ctx).Create(e).Error)
}

func (s analyticsStore) QueryEvents(ctx context.Context, q store.EventQuery) ([]models.AnalyticsEvent, error) {
	query := s.db.WithContext(ctx).Order("timestamp DESC")
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	var events []models.AnalyticsEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, translate(err)
	}
	return events, nil
}
