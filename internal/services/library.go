package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"trendforge/internal/models"
	"trendforge/internal/utils"
)

// ErrNotAuthenticated 未登录用户调用了需要身份的操作
var ErrNotAuthenticated = errors.New("user not authenticated")

const listCacheTTL = time.Minute

// Result 写操作的结果，Error 只包含可展示的通用信息
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

func failed(msg string, err error) Result {
	return Result{Error: msg, Err: err}
}

type record interface {
	GetID() string
}

// Store 按用户隔离的记录存储
type Store[T record, P any] interface {
	Create(ctx context.Context, owner string, rec *T) error
	GetByID(ctx context.Context, owner, id string) (*T, error)
	ListByOwner(ctx context.Context, owner string, limit int, cursor string) (models.Page[T], error)
	Update(ctx context.Context, owner, id string, patch P) error
	Delete(ctx context.Context, owner, id string) error
}

type (
	PostStore = Store[models.SavedPost, models.PostPatch]
	IdeaStore = Store[models.SavedIdea, models.IdeaPatch]
)

// Collection 一类保存记录（帖子或灵感）的业务操作
type Collection[T record, P any] struct {
	kind   string
	store  Store[T, P]
	cache  *utils.TTLCache
	logger *zap.Logger
}

// LibraryService 用户的帖子与灵感库
type LibraryService struct {
	Posts *Collection[models.SavedPost, models.PostPatch]
	Ideas *Collection[models.SavedIdea, models.IdeaPatch]
}

func NewLibraryService(posts PostStore, ideas IdeaStore, cache *utils.TTLCache, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		Posts: &Collection[models.SavedPost, models.PostPatch]{kind: "post", store: posts, cache: cache, logger: logger},
		Ideas: &Collection[models.SavedIdea, models.IdeaPatch]{kind: "idea", store: ideas, cache: cache, logger: logger},
	}
}

func (c *Collection[T, P]) cachePrefix(owner string) string {
	return c.kind + "s:" + owner + ":"
}

func (c *Collection[T, P]) invalidate(owner string) {
	if c.cache != nil {
		c.cache.DeletePrefix(c.cachePrefix(owner))
	}
}

// Save 保存一条记录，成功时返回新记录 ID
func (c *Collection[T, P]) Save(ctx context.Context, user *models.User, rec *T) Result {
	if user == nil {
		return failed("User not authenticated", ErrNotAuthenticated)
	}
	if err := c.store.Create(ctx, user.ID, rec); err != nil {
		c.logger.Error("failed to save "+c.kind, zap.String("user_id", user.ID), zap.Error(err))
		return failed("Failed to save "+c.kind, err)
	}
	c.invalidate(user.ID)
	return Result{Success: true, ID: (*rec).GetID()}
}

// List 按创建时间倒序分页，第一页缓存一分钟。
// 每次返回的 Items 都是独立副本，调用方修改不会影响缓存。
func (c *Collection[T, P]) List(ctx context.Context, user *models.User, limit int, cursor string) (models.Page[T], error) {
	if user == nil {
		return models.Page[T]{}, ErrNotAuthenticated
	}
	limit = models.NormalizePageSize(limit)

	key := fmt.Sprintf("%s%d", c.cachePrefix(user.ID), limit)
	if cursor == "" && c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			page := cached.(models.Page[T])
			page.Items = slices.Clone(page.Items)
			return page, nil
		}
	}

	page, err := c.store.ListByOwner(ctx, user.ID, limit, cursor)
	if err != nil {
		c.logger.Error("failed to list "+c.kind+"s", zap.String("user_id", user.ID), zap.Error(err))
		return models.Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if cursor == "" && c.cache != nil {
		cached := page
		cached.Items = slices.Clone(page.Items)
		c.cache.Set(key, cached, listCacheTTL)
	}
	return page, nil
}

func (c *Collection[T, P]) Get(ctx context.Context, user *models.User, id string) (*T, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return c.store.GetByID(ctx, user.ID, id)
}

// Update 部分更新，后写覆盖先写
func (c *Collection[T, P]) Update(ctx context.Context, user *models.User, id string, patch P) Result {
	if user == nil {
		return failed("User not authenticated", ErrNotAuthenticated)
	}
	if err := c.store.Update(ctx, user.ID, id, patch); err != nil {
		c.logger.Error("failed to update "+c.kind, zap.String("user_id", user.ID), zap.String("id", id), zap.Error(err))
		return failed("Failed to update "+c.kind, err)
	}
	c.invalidate(user.ID)
	return Result{Success: true, ID: id}
}

func (c *Collection[T, P]) Delete(ctx context.Context, user *models.User, id string) Result {
	if user == nil {
		return failed("User not authenticated", ErrNotAuthenticated)
	}
	if err := c.store.Delete(ctx, user.ID, id); err != nil {
		c.logger.Error("failed to delete "+c.kind, zap.String("user_id", user.ID), zap.String("id", id), zap.Error(err))
		return failed("Failed to delete "+c.kind, err)
	}
	c.invalidate(user.ID)
	return Result{Success: true, ID: id}
}
