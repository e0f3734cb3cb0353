package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"trendforge/internal/models"
)

// IdeaRepository post_ideas 表的读写
type IdeaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(db *gorm.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

func (r *IdeaRepository) Create(ctx context.Context, owner string, idea *models.SavedIdea) error {
	if idea.ID == "" {
		idea.ID = newID()
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now()
	}
	if idea.TrendingFactors == nil {
		idea.TrendingFactors = models.StringList{}
	}
	idea.UserID = owner

	if err := r.db.WithContext(ctx).Create(idea).Error; err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}
	return nil
}

func (r *IdeaRepository) GetByID(ctx context.Context, owner, id string) (*models.SavedIdea, error) {
	idea, err := getByOwner[models.SavedIdea](ctx, r.db, owner, id)
	if err != nil {
		return nil, fmt.Errorf("get idea %s: %w", id, err)
	}
	return idea, nil
}

func (r *IdeaRepository) ListByOwner(ctx context.Context, owner string, limit int, cursor string) (models.Page[models.SavedIdea], error) {
	page, err := listByOwner[models.SavedIdea](ctx, r.db, owner, limit, cursor)
	if err != nil {
		return page, fmt.Errorf("list ideas: %w", err)
	}
	return page, nil
}

func (r *IdeaRepository) Update(ctx context.Context, owner, id string, patch models.IdeaPatch) error {
	if err := updateByOwner[models.SavedIdea](ctx, r.db, owner, id, patch.Columns()); err != nil {
		return fmt.Errorf("update idea %s: %w", id, err)
	}
	return nil
}

func (r *IdeaRepository) Delete(ctx context.Context, owner, id string) error {
	if err := deleteByOwner[models.SavedIdea](ctx, r.db, owner, id); err != nil {
		return fmt.Errorf("delete idea %s: %w", id, err)
	}
	return nil
}
