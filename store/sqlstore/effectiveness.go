package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type effectivenessStore struct {
	db *gorm.DB
}

func (s effectivenessStore) GetEffectiveness(ctx context.Context, userID, courseID string) (*models.LearningEffectiveness, error) {
	var e models.LearningEffectiveness
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s effectivenessStore) UpsertEffectiveness(ctx context.Context, e *models.LearningEffectiveness) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return save(ctx, s.db, e)
}

func (s effectivenessStore) QueryEffectiveness(ctx context.Context, q store.EffectivenessQuery) ([]models.LearningEffectiveness, error) {
	query := s.db.WithContext(ctx).Order("last_updated DESC")
	if q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.CourseID != "" {
		query = query.Where("course_id = ?", q.CourseID)
	}
	var list []models.LearningEffectiveness
	if err := query.Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s effectivenessStore) Averages(ctx context.Context) (store.EffectivenessAverages, error) {
	var row struct {
		AvgImprovement  float64
		AvgSatisfaction float64
		AvgEngagement   float64
	}
	err := s.db.WithContext(ctx).Model(&models.LearningEffectiveness{}).
		Select("COALESCE(AVG(knowledge_improvement), 0) AS avg_improvement, " +
			"COALESCE(AVG(satisfaction_score), 0) AS avg_satisfaction, " +
			"COALESCE(AVG(engagement_score), 0) AS avg_engagement").
		Scan(&row).Error
	if err != nil {
		return store.EffectivenessAverages{}, translate(err)
	}
	return store.EffectivenessAverages{
		AvgImprovement:  row.AvgImprovement,
		AvgSatisfaction: row.AvgSatisfaction,
		AvgEngagement:   row.AvgEngagement,
	}, nil
}
