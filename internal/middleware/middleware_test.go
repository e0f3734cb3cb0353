package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trendforge/internal/models"
)

type stubUsers map[string]*models.User

func (s stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func newEngine(users UserFinder, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.Use(LoadUser(users))
	r.Use(RequestLogger(logger))

	r.GET("/login/:id", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(SessionUserKey, c.Param("id"))
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/my-posts", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Name)
	})
	return r
}

func TestAuthRequiredRedirectsHome(t *testing.T) {
	r := newEngine(stubUsers{}, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my-posts", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLoadUserFromSession(t *testing.T) {
	r := newEngine(stubUsers{"u1": {ID: "u1", Name: "Ada"}}, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/u1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/my-posts", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", w.Body.String())
}

func TestRequestLoggerPageView(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(stubUsers{}, zap.New(core))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/my-posts", nil))
	assert.Equal(t, 1, logs.FilterMessage("request").Len())
	assert.Equal(t, 0, logs.FilterMessage("page_view").Len(), "redirects are not page views")

	assert.True(t, isPageView("GET", "/about", 200))
	assert.False(t, isPageView("GET", "/api/posts", 200))
	assert.False(t, isPageView("POST", "/", 200))
	assert.False(t, isPageView("GET", "/missing", 404))
}
