package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lookup/app/models"
	"github.com/shashiranjanraj/lookup/pkg/database"
)

// ErrUserNotFound is returned by GetUser when no row has the screen name.
// It is an expected outcome, not a storage failure.
var ErrUserNotFound = errors.New("user not found")

// UserService reads users. It keeps no state besides the storage handle and
// caches nothing.
type UserService struct {
	db *database.Handle
}

func NewUserService(db *database.Handle) *UserService {
	return &UserService{db: db}
}

// GetUser looks up one user by screen name. An empty name is a valid query
// that matches nothing. Storage failures wrap database.ErrQuery.
func (s *UserService) GetUser(ctx context.Context, screenName string) (models.User, error) {
	// screen_name is the primary key, so at most one row should come back.
	// No ORDER BY: if that ever stops holding, which row wins is unspecified.
	var users []models.User
	err := s.db.Find(ctx, &users, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.User{}).
			Select("screen_name", "name").
			Where("screen_name = ?", screenName).
			Limit(1)
	})
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, ErrUserNotFound
	}
	return users[0], nil
}
