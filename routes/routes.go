package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pms-chatbot/controllers"
)

// Handlers groups the controllers mounted by SetupRoutes
type Handlers struct {
	Chatbot   *controllers.ChatbotController
	WebSocket *controllers.WebSocketController
	Health    *controllers.HealthController
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chat := router.Group("/api/chat")
	{
		chat.POST("/message", h.Chatbot.HandleChat)
		chat.GET("/intents", h.Chatbot.GetSupportedIntents)

		// WebSocket for real-time chat
		chat.GET("/ws", h.WebSocket.HandleWebSocket)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})
}
