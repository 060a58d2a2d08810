package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"engagement-tracker/internal/repository"
)

const maxRestrictionsLimit = 500

type RestrictionHandler interface {
	ListRestrictions(c *gin.Context)
}

type restrictionHandler struct {
	repo   repository.RestrictionRepository // nil when the audit log is disabled
	logger *zap.Logger
}

func NewRestrictionHandler(repo repository.RestrictionRepository, logger *zap.Logger) RestrictionHandler {
	return &restrictionHandler{repo: repo, logger: logger}
}

// ListRestrictions handles GET /api/restrictions?chat_id=&limit=
func (h *restrictionHandler) ListRestrictions(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Restriction log is disabled"})
		return
	}

	chatID, err := strconv.ParseInt(c.Query("chat_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id query parameter is required"})
		return
	}

	limit := repository.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if limit > maxRestrictionsLimit {
			limit = maxRestrictionsLimit
		}
	}

	restrictions, err := h.repo.ListByChat(c.Request.Context(), chatID, limit)
	if err != nil {
		h.logger.Error("Failed to list restrictions", zap.Int64("chat_id", chatID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve restrictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restrictions": restrictions})
}
