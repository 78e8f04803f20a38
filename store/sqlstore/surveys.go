package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type surveyStore struct {
	db *gorm.DB
}

func (s surveyStore) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	var sv models.Survey
	if err := s.db.WithContext(ctx).First(&sv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sv, nil
}

func (s surveyStore) UpsertSurvey(ctx context.Context, sv *models.Survey) error {
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	}
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now()
	}
	return save(ctx, s.db, sv)
}

func (s surveyStore) QuerySurveys(ctx context.Context, q store.SurveyQuery) ([]models.Survey, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if q.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if len(q.Audiences) > 0 {
		query = query.Where("target_audience IN ?", q.Audiences)
	}
	if len(q.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", q.ExcludeIDs)
	}
	var list []models.Survey
	if err := query.Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s surveyStore) InsertResponse(ctx context.Context, r *models.SurveyResponse) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s surveyStore) RespondedSurveyIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.SurveyResponse{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("survey_id", &ids).Error
	return ids, translate(err)
}
