package api

import (
	"github.com/confinedspacecoach/coachbot/internal/api/chat"
	"github.com/confinedspacecoach/coachbot/internal/api/forward"
	"github.com/confinedspacecoach/coachbot/internal/api/middleware"
	"github.com/confinedspacecoach/coachbot/internal/api/ops"
	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/service"
	"github.com/confinedspacecoach/coachbot/internal/sink"
	"github.com/gin-gonic/gin"
)

// SetupRouter sets up the Gin router
func SetupRouter(
	cfg *config.Config,
	chatService *service.ChatService,
	forwardService *service.ForwardService,
	fanout *sink.Fanout,
	sheetSink sink.Sink,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))

	// Operational endpoints
	opsHandler := ops.NewHandler(cfg, sheetSink)
	opsHandler.RegisterRoutes(r)

	// Static widget assets
	SetupStaticRoutes(r)

	// Chat API
	chatHandler := chat.NewHandler(chatService, fanout)
	chatGroup := r.Group("/api")
	chatHandler.RegisterRoutes(chatGroup)

	// Inbound lead/Q&A relay
	forwardHandler := forward.NewHandler(forwardService, cfg.Forward.Secret)
	forwardGroup := r.Group("/")
	forwardHandler.RegisterRoutes(forwardGroup)

	return r
}
