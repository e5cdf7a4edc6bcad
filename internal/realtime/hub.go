package realtime

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/pkg/logger"
	"github.com/wayfarerhq/wayfarer/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MiB

	sendBufferSize = 64

	cleanupTimeout = 5 * time.Second
)

// Hub owns the websocket upgrade path and connection lifecycle. Callers must
// verify identity before handing the request to Serve: a connection that
// reaches the hub is already admitted, so every event it emits carries an
// authenticated identity.
type Hub struct {
	rooms    *Rooms
	router   *Router
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub constructs the realtime hub.
func NewHub(rooms *Rooms, router *Router) *Hub {
	return &Hub{
		rooms:  rooms,
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Allow same-origin requests and explicit localhost development.
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				originHost := hostWithoutPort(origin)
				requestHost := hostWithoutPort(r.Host)
				return originHost == requestHost || isLoopback(originHost)
			},
		},
		log: logger.WithModule("realtime"),
	}
}

// Rooms exposes the membership manager, used by the API layer for presence
// queries.
func (h *Hub) Rooms() *Rooms {
	return h.rooms
}

// Serve upgrades the HTTP connection and runs the client's pumps until the
// transport closes. The identity must already be verified.
func (h *Hub) Serve(identity auth.Identity, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn, identity)
	metrics.ActiveConnections.Inc()
	h.log.Info("connection admitted",
		zap.String("conn_id", client.id),
		zap.String("user_id", identity.ID))

	go client.writePump()
	client.readPump()
}

// release reconciles a closing connection: it leaves every room it belonged
// to, removing presence entries and notifying remaining members. Runs at
// most once per client and must not assume an explicit leave was sent first.
func (h *Hub) release(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	h.rooms.LeaveAll(ctx, c)
	metrics.ActiveConnections.Dec()
	h.log.Info("connection closed",
		zap.String("conn_id", c.id),
		zap.String("user_id", c.identity.ID))
}

func hostWithoutPort(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		parsed, err := http.NewRequest(http.MethodGet, host, nil)
		if err == nil {
			return hostWithoutPort(parsed.URL.Host)
		}
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	if ip != nil {
		return ip.IsLoopback()
	}
	return strings.EqualFold(host, "localhost")
}
