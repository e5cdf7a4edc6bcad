package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarerhq/wayfarer/internal/app"
	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/handlers"
	"github.com/wayfarerhq/wayfarer/internal/middleware"
	"github.com/wayfarerhq/wayfarer/internal/realtime"
	"github.com/wayfarerhq/wayfarer/internal/store"
)

// Deps bundles the collaborators the router wires together.
type Deps struct {
	Config   *app.Config
	DB       *mongo.Database
	JWT      *auth.JWTService
	Verifier *auth.Verifier
	Hub      *realtime.Hub
	Presence *realtime.Presence
	Trips    *store.Trips
}

// NewRouter builds the Gin engine and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.JWT == nil || deps.Verifier == nil {
		return nil, fmt.Errorf("auth services must be provided")
	}
	if deps.Hub == nil || deps.Presence == nil {
		return nil, fmt.Errorf("realtime services must be provided")
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	if deps.Config.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(deps.DB))
	}
	if deps.Config.Monitoring.Prometheus.Enabled {
		r.GET(deps.Config.Monitoring.Prometheus.Endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Realtime entry point; the handler authenticates before upgrading.
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub, deps.Verifier)
	r.GET("/ws", realtimeHandler.Connect)

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.JWT))

	dashboardHandler := handlers.NewDashboardHandler(deps.Presence)
	api.GET("/dashboards/:id/active-users", dashboardHandler.ActiveUsers)

	if deps.Trips != nil {
		tripHandler := handlers.NewTripHandler(deps.Trips)
		api.GET("/trips/:id", tripHandler.Get)
	}

	return r, nil
}
