package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"engagement-tracker/internal/tracking"
)

type SessionHandler interface {
	ListSessions(c *gin.Context)
	GetSession(c *gin.Context)
}

type sessionHandler struct {
	sessions *tracking.Manager
	logger   *zap.Logger
}

func NewSessionHandler(sessions *tracking.Manager, logger *zap.Logger) SessionHandler {
	return &sessionHandler{sessions: sessions, logger: logger}
}

// SessionView is the JSON shape of one session.
type SessionView struct {
	Key int64 `json:"key"`
	tracking.Snapshot
}

// ListSessions handles GET /api/sessions
func (h *sessionHandler) ListSessions(c *gin.Context) {
	keys := h.sessions.Keys()
	views := make([]SessionView, 0, len(keys))
	for _, key := range keys {
		if s, ok := h.sessions.Lookup(key); ok {
			views = append(views, SessionView{Key: key, Snapshot: s.Snapshot()})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"scope":    h.sessions.Scope(),
		"sessions": views,
	})
}

// GetSession handles GET /api/sessions/:chat_id
func (h *sessionHandler) GetSession(c *gin.Context) {
	idStr := c.Param("chat_id")
	chatID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Debug("Invalid chat ID", zap.String("chat_id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return
	}

	s, ok := h.sessions.Lookup(chatID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scope":   h.sessions.Scope(),
		"session": SessionView{Key: chatID, Snapshot: s.Snapshot()},
	})
}
