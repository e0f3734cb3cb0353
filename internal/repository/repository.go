package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trendforge/internal/models"
)

var (
	// ErrNotFound 记录不存在，或不属于该用户
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCursor 分页游标无法解析
	ErrInvalidCursor = errors.New("invalid cursor")
)

// EncodeCursor 将 (createdAt, id) 编码为不透明的分页游标
func EncodeCursor(createdAt time.Time, id string) string {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor 解析 EncodeCursor 生成的游标
func DecodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	ts, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return time.Time{}, "", ErrInvalidCursor
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return time.Unix(0, nanos).UTC(), id, nil
}

type ownedRecord interface {
	GetID() string
	GetCreatedAt() time.Time
}

func newID() string {
	return uuid.New().String()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// listByOwner 按 (created_at, id) 倒序做 keyset 分页，取满一页即认为还有更多
func listByOwner[T ownedRecord](ctx context.Context, conn *gorm.DB, owner string, limit int, cursor string) (models.Page[T], error) {
	limit = models.NormalizePageSize(limit)
	q := conn.WithContext(ctx).Where("user_id = ?", owner)
	if cursor != "" {
		ts, id, err := DecodeCursor(cursor)
		if err != nil {
			return models.Page[T]{}, err
		}
		q = q.Where("(created_at, id) < (?, ?)", ts, id)
	}

	items := make([]T, 0, limit)
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&items).Error; err != nil {
		return models.Page[T]{}, err
	}

	page := models.Page[T]{Items: items, HasMore: len(items) == limit}
	if page.HasMore {
		last := items[len(items)-1]
		page.NextCursor = EncodeCursor(last.GetCreatedAt(), last.GetID())
	}
	return page, nil
}

func getByOwner[T any](ctx context.Context, conn *gorm.DB, owner, id string) (*T, error) {
	var rec T
	err := conn.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func updateByOwner[T any](ctx context.Context, conn *gorm.DB, owner, id string, cols map[string]any) error {
	if len(cols) == 0 {
		_, err := getByOwner[T](ctx, conn, owner, id)
		return err
	}
	res := conn.WithContext(ctx).Model(new(T)).Where("id = ? AND user_id = ?", id, owner).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByOwner[T any](ctx context.Context, conn *gorm.DB, owner, id string) error {
	res := conn.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
