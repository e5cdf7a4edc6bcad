package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wayfarerhq/wayfarer/internal/realtime"
	"github.com/wayfarerhq/wayfarer/pkg/response"
)

// DashboardHandler answers presence queries from the persisted active-user
// list, so a page reload recovers the participant roster without waiting for
// realtime events.
type DashboardHandler struct {
	presence *realtime.Presence
}

// NewDashboardHandler constructs the dashboard query handler.
func NewDashboardHandler(presence *realtime.Presence) *DashboardHandler {
	return &DashboardHandler{presence: presence}
}

// ActiveUsers returns the current presence snapshot for a dashboard.
func (h *DashboardHandler) ActiveUsers(c *gin.Context) {
	users, err := h.presence.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active_users": users})
}
