package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pms-chatbot/models"
)

// ChatService is the part of services.ChatbotService the HTTP layer needs
type ChatService interface {
	ProcessMessage(ctx context.Context, req models.ChatRequest, authorization string) *models.ChatResponse
	SupportedIntents() []string
}

type ChatbotController struct {
	chatbotService ChatService
}

func NewChatbotController(chatbotService ChatService) *ChatbotController {
	return &ChatbotController{
		chatbotService: chatbotService,
	}
}

// HandleChat processes chat messages
func (cc *ChatbotController) HandleChat(c *gin.Context) {
	var req models.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}
	req.Channel = models.ChannelWeb

	response := cc.chatbotService.ProcessMessage(c.Request.Context(), req, c.GetHeader("Authorization"))

	c.JSON(http.StatusOK, response)
}

// GetSupportedIntents returns list of supported intents
func (cc *ChatbotController) GetSupportedIntents(c *gin.Context) {
	c.JSON(http.StatusOK, cc.chatbotService.SupportedIntents())
}
