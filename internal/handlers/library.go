package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trendforge/internal/middleware"
	"trendforge/internal/models"
	"trendforge/internal/repository"
	"trendforge/internal/services"
	"trendforge/internal/utils"
)

type identified interface {
	GetID() string
}

type recordInput[T any] interface {
	Record() *T
}

// LibraryHandler 保存的帖子与灵感：JSON 接口和页面
type LibraryHandler struct {
	lib    *services.LibraryService
	logger *zap.Logger
}

func NewLibraryHandler(lib *services.LibraryService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{lib: lib, logger: logger}
}

func resultStatus(res services.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case errors.Is(res.Err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(res.Err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func createRecord[T identified, P any, In recordInput[T]](c *gin.Context, coll *services.Collection[T, P]) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, services.Result{Error: err.Error()})
		return
	}
	res := coll.Save(c.Request.Context(), middleware.CurrentUser(c), in.Record())
	status := resultStatus(res)
	if res.Success {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func listRecords[T identified, P any](c *gin.Context, coll *services.Collection[T, P]) {
	limit := utils.QueryInt(c.Query("limit"), models.DefaultPageSize)
	page, err := coll.List(c.Request.Context(), middleware.CurrentUser(c), limit, c.Query("cursor"))
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, services.Result{Error: "User not authenticated"})
	case errors.Is(err, repository.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, services.Result{Error: "Invalid cursor"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, services.Result{Error: "Failed to load items"})
	default:
		c.JSON(http.StatusOK, page)
	}
}

func getRecord[T identified, P any](c *gin.Context, coll *services.Collection[T, P]) {
	rec, err := coll.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, services.Result{Error: "User not authenticated"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, services.Result{Error: "Not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, services.Result{Error: "Failed to load item"})
	default:
		c.JSON(http.StatusOK, rec)
	}
}

func updateRecord[T identified, P any](c *gin.Context, coll *services.Collection[T, P]) {
	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, services.Result{Error: err.Error()})
		return
	}
	res := coll.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), patch)
	c.JSON(resultStatus(res), res)
}

func deleteRecord[T identified, P any](c *gin.Context, coll *services.Collection[T, P]) {
	res := coll.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	c.JSON(resultStatus(res), res)
}

func (h *LibraryHandler) CreatePost(c *gin.Context) {
	createRecord[models.SavedPost, models.PostPatch, models.PostInput](c, h.lib.Posts)
}

func (h *LibraryHandler) ListPosts(c *gin.Context) { listRecords(c, h.lib.Posts) }

func (h *LibraryHandler) GetPost(c *gin.Context) { getRecord(c, h.lib.Posts) }

func (h *LibraryHandler) UpdatePost(c *gin.Context) { updateRecord(c, h.lib.Posts) }

func (h *LibraryHandler) DeletePost(c *gin.Context) { deleteRecord(c, h.lib.Posts) }

func (h *LibraryHandler) CreateIdea(c *gin.Context) {
	createRecord[models.SavedIdea, models.IdeaPatch, models.IdeaInput](c, h.lib.Ideas)
}

func (h *LibraryHandler) ListIdeas(c *gin.Context) { listRecords(c, h.lib.Ideas) }

func (h *LibraryHandler) GetIdea(c *gin.Context) { getRecord(c, h.lib.Ideas) }

func (h *LibraryHandler) UpdateIdea(c *gin.Context) { updateRecord(c, h.lib.Ideas) }

func (h *LibraryHandler) DeleteIdea(c *gin.Context) { deleteRecord(c, h.lib.Ideas) }

// renderListError 列表页面的错误页，游标错误按 400 处理
func renderListError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		RenderError(c, http.StatusUnauthorized, "Please sign in to see your library.")
	case errors.Is(err, repository.ErrInvalidCursor):
		RenderError(c, http.StatusBadRequest, "Invalid page cursor.")
	default:
		RenderError(c, http.StatusInternalServerError, message)
	}
}

// MyPosts 我的帖子页面
func (h *LibraryHandler) MyPosts(c *gin.Context) {
	limit := utils.QueryInt(c.Query("limit"), models.DefaultPageSize)
	page, err := h.lib.Posts.List(c.Request.Context(), middleware.CurrentUser(c), limit, c.Query("cursor"))
	if err != nil {
		renderListError(c, err, "Failed to load your posts.")
		return
	}
	Render(c, http.StatusOK, "my_posts.html", gin.H{
		"Title": "My Posts",
		"Page":  page,
	})
}

// PostDetail 帖子详情，正文按 Markdown 渲染
func (h *LibraryHandler) PostDetail(c *gin.Context) {
	post, err := h.lib.Posts.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load post.")
		return
	}
	Render(c, http.StatusOK, "post_detail.html", gin.H{
		"Title": "Post Details",
		"Post":  post,
		"Body":  utils.RenderMarkdown(post.Content),
	})
}

func (h *LibraryHandler) MyIdeas(c *gin.Context) {
	limit := utils.QueryInt(c.Query("limit"), models.DefaultPageSize)
	page, err := h.lib.Ideas.List(c.Request.Context(), middleware.CurrentUser(c), limit, c.Query("cursor"))
	if err != nil {
		renderListError(c, err, "Failed to load your ideas.")
		return
	}
	Render(c, http.StatusOK, "my_ideas.html", gin.H{
		"Title": "My Ideas",
		"Page":  page,
	})
}

func (h *LibraryHandler) IdeaDetail(c *gin.Context) {
	idea, err := h.lib.Ideas.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load idea.")
		return
	}
	Render(c, http.StatusOK, "idea_detail.html", gin.H{
		"Title": idea.Title,
		"Idea":  idea,
	})
}
