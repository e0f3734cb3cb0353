package models

import (
	"time"
)

// User 通过 Google 登录的用户，只保存展示所需的资料
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GoogleID  string    `gorm:"uniqueIndex;size:64;not null" json:"google_id"`
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"` // Google 头像 URL
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName 优先展示姓名，其次邮箱前缀
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i, r := range u.Email {
		if r == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
