package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"trendforge/internal/models"
)

// PostRepository linkedin_posts 表的读写，所有操作都限定在 owner 名下
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, owner string, post *models.SavedPost) error {
	if post.ID == "" {
		post.ID = newID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now()
	}
	if post.Hashtags == nil {
		post.Hashtags = models.StringList{}
	}
	post.UserID = owner

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, owner, id string) (*models.SavedPost, error) {
	post, err := getByOwner[models.SavedPost](ctx, r.db, owner, id)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

func (r *PostRepository) ListByOwner(ctx context.Context, owner string, limit int, cursor string) (models.Page[models.SavedPost], error) {
	page, err := listByOwner[models.SavedPost](ctx, r.db, owner, limit, cursor)
	if err != nil {
		return page, fmt.Errorf("list posts: %w", err)
	}
	return page, nil
}

func (r *PostRepository) Update(ctx context.Context, owner, id string, patch models.PostPatch) error {
	if err := updateByOwner[models.SavedPost](ctx, r.db, owner, id, patch.Columns()); err != nil {
		return fmt.Errorf("update post %s: %w", id, err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, owner, id string) error {
	if err := deleteByOwner[models.SavedPost](ctx, r.db, owner, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
