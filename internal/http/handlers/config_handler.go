// README: Handlers for matching configuration CRUD.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/modules/matchconfig"
	"carpool/internal/modules/matching"
)

type ConfigHandler struct {
	configs *matchconfig.Service
}

func NewConfigHandler(svc *matchconfig.Service) *ConfigHandler {
	return &ConfigHandler{configs: svc}
}

// Get returns the effective configuration.
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configs.Load(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}

// Put validates and persists a new configuration.
func (h *ConfigHandler) Put(c *gin.Context) {
	var cfg matching.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if err := h.configs.Save(c.Request.Context(), cfg); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}
