// Package sqlstore implements store.Store on gorm for MySQL and SQLite.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

// Store is the gorm-backed store.Store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps db and creates missing tables.
func New(db *gorm.DB) (*Store, error) {
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *gorm.DB) error {
	modelDefs := []any{
		&models.User{},
		&models.Course{},
		&models.Progress{},
		&models.AnalyticsEvent{},
		&models.Feedback{},
		&models.Survey{},
		&models.SurveyResponse{},
		&models.LearningEffectiveness{},
	}
	for _, model := range modelDefs {
		// Only migrate when the table is missing to avoid intrusive changes on existing schema
		if db.Migrator().HasTable(model) {
			continue
		}
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migration failed for %T: %w", model, err)
		}
	}
	return nil
}

func (s *Store) Users() store.UserStore {
	return userStore{s.db}
}

func (s *Store) Courses() store.CourseStore {
	return courseStore{s.db}
}

func (s *Store) Progress() store.ProgressStore {
	return progressStore{s.db}
}

func (s *Store) Analytics() store.AnalyticsStore {
	return analyticsStore{s.db}
}

func (s *Store) Feedback() store.FeedbackStore {
	return feedbackStore{s.db}
}

func (s *Store) Surveys() store.SurveyStore {
	return surveyStore{s.db}
}

func (s *Store) Effectiveness() store.EffectivenessStore {
	return effectivenessStore{s.db}
}

// Reset deletes all users, courses and progress records.
func (s *Store) Reset(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Progress{}, &models.Course{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("reset %T: %w", model, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

// save updates the row by primary key or inserts it when absent.
func save(ctx context.Context, db *gorm.DB, value any) error {
	return translate(db.WithContext(ctx).Save(value).Error)
}
