package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

type userStore struct {
	db *gorm.DB
}

func (s userStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s userStore) FindUserByLogin(ctx context.Context, email, username string) (*models.User, error) {
	if email == "" && username == "" {
		return nil, store.ErrNotFound
	}
	query := s.db.WithContext(ctx)
	switch {
	case email != "" && username != "":
		query = query.Where("email = ? OR username = ?", email, username)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		query = query.Where("username = ?", username)
	}
	var u models.User
	if err := query.First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
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
	return save(ctx, s.db, u)
}

func (s userStore) filtered(ctx context.Context, q store.UserQuery) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if !q.ActiveSince.IsZero() {
		query = query.Where("gamification_last_activity_date >= ?", q.ActiveSince)
	}
	return query
}

func (s userStore) QueryUsers(ctx context.Context, q store.UserQuery) ([]models.User, error) {
	query := s.filtered(ctx, q)
	if q.OrderByPoints {
		query = query.Order("gamification_total_points DESC").Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s userStore) CountUsers(ctx context.Context, q store.UserQuery) (int64, error) {
	var n int64
	err := s.filtered(ctx, q).Count(&n).Error
	return n, translate(err)
}

func (s userStore) AveragePoints(ctx context.Context) (float64, error) {
	var avg float64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("COALESCE(AVG(gamification_total_points), 0)").
		Scan(&avg).Error
	return avg, translate(err)
}
