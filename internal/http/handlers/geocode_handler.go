// README: Geocode handler backing the visualization testboard.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/modules/location"
)

type GeocodeHandler struct {
	locations *location.Service
}

func NewGeocodeHandler(svc *location.Service) *GeocodeHandler {
	return &GeocodeHandler{locations: svc}
}

type geocodeReq struct {
	Address string `json:"address" binding:"required"`
}

// Resolve geocodes one address.
func (h *GeocodeHandler) Resolve(c *gin.Context) {
	var req geocodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	resolved, err := h.locations.Resolve(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, location.ErrNotResolvable) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resolved)
}
