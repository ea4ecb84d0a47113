// README: Handler for AI-written plan announcements.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/http/middleware"
	"carpool/internal/service"
	"carpool/internal/types"
)

type AnnounceHandler struct {
	announcer *service.Announcer
}

func NewAnnounceHandler(a *service.Announcer) *AnnounceHandler {
	return &AnnounceHandler{announcer: a}
}

// Create generates announcement text for a stored plan.
func (h *AnnounceHandler) Create(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing plan id")
		return
	}
	text, err := h.announcer.Announce(c.Request.Context(), c.GetString(middleware.ContextUID), types.ID(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"announcement": text})
}
