package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendforge/internal/middleware"
)

// Render 渲染页面并注入当前用户与路径
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError 渲染错误页
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{
		"Title": http.StatusText(code),
		"Code":  code,
		"Error": message,
	})
}

// NotFound 404 页面
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "The page you're looking for doesn't exist or has been moved.")
}
