package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trendforge/internal/utils"
)

const pageCacheTTL = 10 * time.Minute

// PageHandler 首页、关于页与法律条款等静态内容页面
type PageHandler struct {
	contentDir string
	cache      *utils.TTLCache
	logger     *zap.Logger
}

func NewPageHandler(contentDir string, cache *utils.TTLCache, logger *zap.Logger) *PageHandler {
	return &PageHandler{contentDir: contentDir, cache: cache, logger: logger}
}

// Home 首页：生成灵感或帖子
func (h *PageHandler) Home(c *gin.Context) {
	Render(c, http.StatusOK, "home.html", gin.H{
		"Title": "TrendForge",
		"Mode":  c.DefaultQuery("mode", "post"),
	})
}

func (h *PageHandler) About(c *gin.Context) {
	h.markdownPage(c, "about.html", "about")
}

func (h *PageHandler) PrivacyPolicy(c *gin.Context) {
	h.markdownPage(c, "legal.html", "privacy-policy")
}

func (h *PageHandler) Terms(c *gin.Context) {
	h.markdownPage(c, "legal.html", "terms-and-conditions")
}

func (h *PageHandler) markdownPage(c *gin.Context, view, slug string) {
	doc, err := h.document(slug)
	if err != nil {
		h.logger.Error("failed to load page content", zap.String("slug", slug), zap.Error(err))
		NotFound(c)
		return
	}
	Render(c, http.StatusOK, view, gin.H{
		"Title":    doc.Title,
		"Document": doc,
	})
}

// document 读取并渲染 content 目录下的 Markdown，结果缓存
func (h *PageHandler) document(slug string) (utils.Document, error) {
	key := "page:" + slug
	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			return v.(utils.Document), nil
		}
	}

	source, err := os.ReadFile(filepath.Join(h.contentDir, slug+".md"))
	if err != nil {
		return utils.Document{}, fmt.Errorf("read %s: %w", slug, err)
	}
	doc := utils.RenderDocument(string(source))
	if h.cache != nil {
		h.cache.Set(key, doc, pageCacheTTL)
	}
	return doc, nil
}
