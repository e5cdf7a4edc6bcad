package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarerhq/wayfarer/internal/middleware"
	"github.com/wayfarerhq/wayfarer/internal/store"
	"github.com/wayfarerhq/wayfarer/pkg/errors"
	"github.com/wayfarerhq/wayfarer/pkg/response"
)

// TripHandler serves trip reads for the dashboard client.
type TripHandler struct {
	trips *store.Trips
}

// NewTripHandler constructs the trip query handler.
func NewTripHandler(trips *store.Trips) *TripHandler {
	return &TripHandler{trips: trips}
}

// Get returns a trip if the requester owns it, collaborates on it, or the
// trip is public.
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.trips.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if !trip.IsPublic {
		raw, _ := c.Get(middleware.CtxUserIDKey)
		userID, _ := raw.(string)
		uid, err := primitive.ObjectIDFromHex(userID)
		if err != nil || !trip.HasMember(uid) {
			response.Error(c, errors.ErrNotAuthorized)
			return
		}
	}

	response.Success(c, http.StatusOK, trip)
}
