package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trendforge/internal/agent"
	"trendforge/internal/models"
	"trendforge/internal/reconcile"
)

// maxReconcileBody 整理接口请求体上限
const maxReconcileBody = 1 << 20

type AgentHandler struct {
	runner agent.Runner
	logger *zap.Logger
}

func NewAgentHandler(runner agent.Runner, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{runner: runner, logger: logger}
}

type agentRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

// flushWriter 每次写入后立即 flush，分块原样转发给客户端
type flushWriter struct {
	c     *gin.Context
	wrote bool
}

func (w *flushWriter) Write(p []byte) (int, error) {
	if !w.wrote {
		w.c.Header("Content-Type", "text/plain; charset=utf-8")
		w.c.Header("Cache-Control", "no-cache")
		w.c.Header("X-Content-Type-Options", "nosniff")
		w.c.Status(http.StatusOK)
		w.wrote = true
	}
	n, err := w.c.Writer.Write(p)
	w.c.Writer.Flush()
	return n, err
}

// Run POST /api/agent，以纯文本流返回模型输出
func (h *AgentHandler) Run(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid agent request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run agent"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	w := &flushWriter{c: c}
	err := h.runner.Run(c.Request.Context(), agent.Request{
		Mode:    models.ParseMode(req.Mode),
		Message: req.Message,
	}, w)
	if err != nil {
		h.logger.Error("agent workflow error", zap.String("mode", req.Mode), zap.Error(err))
		if !w.wrote {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run agent"})
		}
		return
	}
	if !w.wrote {
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)
	}
}

type reconcileRequest struct {
	Text     string `json:"text"`
	Mode     string `json:"mode"`
	Finished bool   `json:"finished"`
}

// Reconcile POST /api/agent/reconcile，把客户端累积的文本整理为展示模型
func (h *AgentHandler) Reconcile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReconcileBody)
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, reconcile.Reconcile(models.ParseMode(req.Mode), req.Text, req.Finished))
}
