package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trendforge/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

// UpsertGoogleUser 按 GoogleID 查找用户，不存在则注册，存在则同步资料
func (r *UserRepository) UpsertGoogleUser(ctx context.Context, info models.User) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("google_id = ?", info.GoogleID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = info
		user.ID = newID()
		if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil
	case err != nil:
		return nil, fmt.Errorf("find google user: %w", err)
	}

	user.Email = info.Email
	user.Name = info.Name
	user.Avatar = info.Avatar
	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}
