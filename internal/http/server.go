// README: Presentation adapter: registers HTTP routes and delegates to the trip controller.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taximeter/internal/http/handlers"
	"taximeter/internal/http/middleware"
	"taximeter/internal/modules/position"
	"taximeter/internal/modules/trip"
)

type ServerDeps struct {
	Trips          *trip.Controller
	Device         *position.DeviceSource
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Server struct {
	engine *gin.Engine
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Logging(logger), middleware.Recovery(logger))

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) == 0 ||
		(len(deps.AllowedOrigins) == 1 && deps.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	}
	engine.Use(cors.New(corsCfg))

	meter := handlers.NewMeterHandler(deps.Trips)
	engine.GET("/api/state", meter.State)
	engine.GET("/api/state/stream", meter.Stream)
	engine.GET("/api/trip-types", meter.TripTypes)
	engine.POST("/api/trip/start", meter.Start)
	engine.POST("/api/trip/pause", meter.Pause)
	engine.POST("/api/trip/resume", meter.Resume)
	engine.POST("/api/trip/stop", meter.Stop)
	engine.POST("/api/trip/type", meter.SelectTripType)
	engine.POST("/api/trip/subtrip", meter.SelectSubTrip)
	engine.POST("/api/simulation/toggle", meter.ToggleSimulation)
	engine.POST("/api/summary/dismiss", meter.DismissSummary)

	if deps.Device != nil {
		pos := handlers.NewPositionHandler(deps.Device)
		engine.POST("/api/position", pos.Push)
	}

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return &Server{engine: engine}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
