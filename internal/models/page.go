package models

// Page 按创建时间倒序的一页数据
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// NormalizePageSize 将非法的页大小修正到允许范围
func NormalizePageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
