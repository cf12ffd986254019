package routes

import (
	"nexus_pix/internal/adapter/http/handlers"
	"nexus_pix/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathPix      = "/pix"
	PathCharges  = "/charges"
	PathWebhooks = "/webhook"
)

func addPixRoutes(rg *gin.RouterGroup, deps Dependencies, limiter *middleware.IPRateLimiter) {
	pixHandler := handlers.NewPixHandler(deps.ChargeUseCase)
	streamHandler := handlers.NewStatusStreamHandler(deps.StatusWatcher)

	create := []gin.HandlerFunc{pixHandler.CreateCharge}
	if limiter != nil {
		create = append([]gin.HandlerFunc{limiter.Middleware()}, create...)
	}

	pix := rg.Group(PathPix)
	{
		pix.POST("", create...)
		pix.GET("/:id", pixHandler.GetStatus)
		pix.GET("/:id/stream", streamHandler.Stream)
	}

	rg.GET(PathCharges+"/:id", pixHandler.GetCharge)
}

func addWebhookRoutes(rg *gin.RouterGroup, deps Dependencies) {
	webhookHandler := handlers.NewWebhookHandler(deps.ChargeUseCase)
	rg.POST(PathWebhooks+"/:provider", webhookHandler.Receive)
}
