package router

import (
	"github.com/gin-gonic/gin"

	"trendforge/internal/handlers"
	"trendforge/internal/middleware"
)

// Handlers 路由所需的全部处理器
type Handlers struct {
	Agent      *handlers.AgentHandler
	Generation *handlers.GenerationHandler
	Library    *handlers.LibraryHandler
	Pages      *handlers.PageHandler
	SEO        *handlers.SEOHandler
	Auth       *handlers.AuthHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// 公共页面
	r.GET("/", h.Pages.Home)
	r.GET("/about", h.Pages.About)
	r.GET("/privacy-policy", h.Pages.PrivacyPolicy)
	r.GET("/terms-and-conditions", h.Pages.Terms)
	r.GET("/robots.txt", h.SEO.RobotsTxt)
	r.GET("/sitemap.xml", h.SEO.SitemapXML)

	// 登录
	if h.Auth != nil {
		r.GET("/auth/google/login", h.Auth.GoogleLogin)
		r.GET("/auth/google/callback", h.Auth.GoogleCallback)
		r.GET("/logout", h.Auth.Logout)
	}

	// 需要登录的页面
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/my-posts", h.Library.MyPosts)
		authorized.GET("/my-posts/post/:id", h.Library.PostDetail)
		authorized.GET("/my-ideas", h.Library.MyIdeas)
		authorized.GET("/my-ideas/idea/:id", h.Library.IdeaDetail)
	}

	api := r.Group("/api")
	{
		api.POST("/agent", h.Agent.Run)
		api.POST("/agent/reconcile", h.Agent.Reconcile)

		api.POST("/generations", h.Generation.Start)
		api.GET("/generations/current", h.Generation.Current)
		api.DELETE("/generations/current", h.Generation.Clear)

		// 未登录时由服务层返回 {success:false}
		api.POST("/posts", h.Library.CreatePost)
		api.GET("/posts", h.Library.ListPosts)
		api.GET("/posts/:id", h.Library.GetPost)
		api.PATCH("/posts/:id", h.Library.UpdatePost)
		api.DELETE("/posts/:id", h.Library.DeletePost)

		api.POST("/ideas", h.Library.CreateIdea)
		api.GET("/ideas", h.Library.ListIdeas)
		api.GET("/ideas/:id", h.Library.GetIdea)
		api.PATCH("/ideas/:id", h.Library.UpdateIdea)
		api.DELETE("/ideas/:id", h.Library.DeleteIdea)
	}

	r.NoRoute(handlers.NotFound)
}
