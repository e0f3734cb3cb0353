package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"trendforge/internal/middleware"
	"trendforge/internal/models"
)

const (
	oauthStateKey      = "oauth_state"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	signInErrorMessage = "Sign in with Google failed. Please try again."
)

// UserUpserter 登录时注册或更新用户
type UserUpserter interface {
	UpsertGoogleUser(ctx context.Context, info models.User) (*models.User, error)
}

// GenerationClearer 退出登录时取消浏览器会话上的生成
type GenerationClearer interface {
	Clear(key string)
}

type AuthHandler struct {
	oauth       *oauth2.Config
	users       UserUpserter
	generations GenerationClearer
	userInfoURL string
	logger      *zap.Logger
}

// NewGoogleOAuthConfig Google OAuth 配置，回调地址为 siteURL/auth/google/callback
func NewGoogleOAuthConfig(clientID, clientSecret, siteURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  siteURL + "/auth/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// NewAuthHandler generations 可为 nil
func NewAuthHandler(oauth *oauth2.Config, users UserUpserter, generations GenerationClearer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{oauth: oauth, users: users, generations: generations, userInfoURL: googleUserInfoURL, logger: logger}
}

// GoogleUserInfo Google 用户信息
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GoogleLogin 发起 Google OAuth 登录
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := generateStateToken()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, signInErrorMessage)
		return
	}

	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	_ = session.Save()

	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// GoogleCallback 处理 Google OAuth 回调
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState, _ := session.Get(oauthStateKey).(string)
	if savedState == "" || c.Query("state") != savedState {
		RenderError(c, http.StatusBadRequest, "Invalid sign-in state.")
		return
	}
	session.Delete(oauthStateKey)
	_ = session.Save()

	code := c.Query("code")
	if code == "" {
		RenderError(c, http.StatusBadRequest, signInErrorMessage)
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("oauth exchange failed", zap.Error(err))
		RenderError(c, http.StatusInternalServerError, signInErrorMessage)
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.logger.Error("failed to fetch google user info", zap.Error(err))
		RenderError(c, http.StatusInternalServerError, signInErrorMessage)
		return
	}
	if !info.VerifiedEmail {
		RenderError(c, http.StatusBadRequest, "Your Google email address is not verified.")
		return
	}

	user, err := h.users.UpsertGoogleUser(ctx, models.User{
		GoogleID: info.ID,
		Email:    info.Email,
		Name:     info.Name,
		Avatar:   info.Picture,
	})
	if err != nil {
		h.logger.Error("failed to save user", zap.Error(err))
		RenderError(c, http.StatusInternalServerError, signInErrorMessage)
		return
	}

	session.Set(middleware.SessionUserKey, user.ID)
	_ = session.Save()
	h.logger.Info("user signed in", zap.String("user_id", user.ID))

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := h.oauth.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Logout 退出登录，同时清空并取消该会话上的生成
func (h *AuthHandler) Logout(c *gin.Context) {
	if key := sessionKey(c, false); key != "" && h.generations != nil {
		h.generations.Clear(key)
	}
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}
