package middleware

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"trendforge/internal/models"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
)

// UserFinder 按 ID 查找用户
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthRequired 页面路由需要登录，未登录时回到首页
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser 从 session 读取用户 ID，每个请求只查询一次并放入 context
func LoadUser(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(SessionUserKey).(string); ok && userID != "" {
			user, err := users.FindByID(c.Request.Context(), userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser 当前登录用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
