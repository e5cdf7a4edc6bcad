package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/realtime"
	"github.com/wayfarerhq/wayfarer/pkg/errors"
	"github.com/wayfarerhq/wayfarer/pkg/metrics"
	"github.com/wayfarerhq/wayfarer/pkg/response"
)

// RealtimeHandler is the connection gate: it verifies the handshake
// credential and only then upgrades the request into the hub. A rejected
// connection never reaches the event router.
type RealtimeHandler struct {
	hub      *realtime.Hub
	verifier *auth.Verifier
}

// NewRealtimeHandler constructs the websocket entry point.
func NewRealtimeHandler(hub *realtime.Hub, verifier *auth.Verifier) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, verifier: verifier}
}

// Connect authenticates and admits a websocket client.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	if h.hub == nil || h.verifier == nil {
		response.Error(c, errors.ErrNotFound)
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), handshakeToken(c))
	if err != nil {
		appErr := errors.FromError(err)
		metrics.HandshakeRejections.WithLabelValues(appErr.Code).Inc()
		response.Error(c, appErr)
		return
	}

	h.hub.Serve(identity, c.Writer, c.Request)
}

// handshakeToken extracts the credential from the query string or the
// Authorization header; browser websocket clients cannot set headers, so the
// query form is the common path.
func handshakeToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token
	}
	if token := strings.TrimSpace(c.Query("access_token")); token != "" {
		return token
	}
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}
