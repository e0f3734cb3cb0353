package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendforge/internal/agent"
	"trendforge/internal/models"
	"trendforge/internal/services"
)

const generationKey = "generation_key"

type GenerationHandler struct {
	svc    *services.GenerationService
	logger *zap.Logger
}

func NewGenerationHandler(svc *services.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{svc: svc, logger: logger}
}

// sessionKey 浏览器会话对应的生成 key，首次访问时创建
func sessionKey(c *gin.Context, create bool) string {
	session := sessions.Default(c)
	if key, ok := session.Get(generationKey).(string); ok && key != "" {
		return key
	}
	if !create {
		return ""
	}
	key := uuid.New().String()
	session.Set(generationKey, key)
	_ = session.Save()
	return key
}

// Start POST /api/generations
func (h *GenerationHandler) Start(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	key := sessionKey(c, true)
	err := h.svc.Start(key, agent.Request{Mode: models.ParseMode(req.Mode), Message: req.Message})
	if errors.Is(err, services.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	if err != nil {
		h.logger.Error("failed to start generation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run agent"})
		return
	}
	c.JSON(http.StatusAccepted, h.svc.Snapshot(key))
}

// Current GET /api/generations/current
func (h *GenerationHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot(sessionKey(c, false)))
}

// Clear DELETE /api/generations/current
func (h *GenerationHandler) Clear(c *gin.Context) {
	if key := sessionKey(c, false); key != "" {
		h.svc.Clear(key)
	}
	c.Status(http.StatusNoContent)
}
