package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"engagement-tracker/internal/config"
)

type SettingsHandler interface {
	GetSettings(c *gin.Context)
}

type settingsHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewSettingsHandler(cfg *config.Config, logger *zap.Logger) SettingsHandler {
	return &settingsHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// SettingsResponse is the effective tracking configuration. Secrets are never included.
type SettingsResponse struct {
	Tracking struct {
		SessionScope      string   `json:"sessionScope"`
		AdWords           []string `json:"adWords"`
		SocialHosts       []string `json:"socialHosts"`
		ExcludedUsernames []string `json:"excludedUsernames"`
	} `json:"tracking"`
	Commands struct {
		GateAdTotal      bool `json:"gateAdTotal"`
		UserlistPageSize int  `json:"userlistPageSize"`
	} `json:"commands"`
	RestrictionLog struct {
		Enabled bool   `json:"enabled"`
		Type    string `json:"type,omitempty"`
	} `json:"restrictionLog"`
}

// GetSettings handles GET /api/settings
func (h *settingsHandler) GetSettings(c *gin.Context) {
	response := SettingsResponse{}
	response.Tracking.SessionScope = h.cfg.Tracking.SessionScope
	response.Tracking.AdWords = h.cfg.Tracking.AdWords
	response.Tracking.SocialHosts = h.cfg.Tracking.SocialHosts
	response.Tracking.ExcludedUsernames = h.cfg.Tracking.ExcludedUsernames
	response.Commands.GateAdTotal = h.cfg.Commands.GateAdTotal
	response.Commands.UserlistPageSize = h.cfg.Commands.UserlistPageSize
	response.RestrictionLog.Enabled = h.cfg.Database.Enabled
	if h.cfg.Database.Enabled {
		response.RestrictionLog.Type = h.cfg.Database.Type
	}

	c.JSON(http.StatusOK, response)
}
