// README: Plan handlers for manual override edits.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/http/middleware"
	"carpool/internal/modules/plan"
	"carpool/internal/types"
)

type PlanHandler struct {
	plans *plan.Service
}

func NewPlanHandler(svc *plan.Service) *PlanHandler {
	return &PlanHandler{plans: svc}
}

type moveReq struct {
	PassengerID string `json:"passenger_id" binding:"required"`
	ToDriverID  string `json:"to_driver_id" binding:"required"`
	Version     int    `json:"version"`
}

// Move relocates a passenger into another driver's car on a stored plan.
func (h *PlanHandler) Move(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing plan id")
		return
	}
	var req moveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	res, err := h.plans.MovePassenger(c.Request.Context(), plan.MoveCommand{
		PlanID:      types.ID(id),
		PassengerID: types.ID(req.PassengerID),
		ToDriverID:  types.ID(req.ToDriverID),
		Version:     req.Version,
		ActorUID:    c.GetString(middleware.ContextUID),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
