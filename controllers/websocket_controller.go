package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pms-chatbot/models"
)

type wsMessage struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type WebSocketController struct {
	chatbotService ChatService
	upgrader       websocket.Upgrader
	log            *zap.Logger
}

// NewWebSocketController accepts upgrades from allowedOrigins only. A "*"
// entry allows any origin.
func NewWebSocketController(chatbotService ChatService, allowedOrigins []string, log *zap.Logger) *WebSocketController {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketController{
		chatbotService: chatbotService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(origin, allowedOrigins)
			},
		},
		log: log,
	}
}

// HandleWebSocket answers every JSON frame on the connection. The credential
// comes from the Authorization header or, for browsers, the token query param.
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	authorization := c.GetHeader("Authorization")
	if authorization == "" {
		if token := c.Query("token"); token != "" {
			authorization = "Bearer " + token
		}
	}

	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wc.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := c.Query("sessionId")

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wc.log.Warn("WebSocket read failed", zap.Error(err))
			}
			return
		}

		if strings.TrimSpace(msg.Message) == "" {
			if err := conn.WriteJSON(gin.H{"error": "Invalid request format", "details": "message is required"}); err != nil {
				return
			}
			continue
		}

		if msg.SessionID != "" {
			sessionID = msg.SessionID
		}

		response := wc.chatbotService.ProcessMessage(c.Request.Context(), models.ChatRequest{
			Message:   msg.Message,
			SessionID: sessionID,
			UserID:    msg.UserID,
			Channel:   models.ChannelWebSocket,
		}, authorization)
		sessionID = response.SessionID

		if err := conn.WriteJSON(response); err != nil {
			wc.log.Warn("WebSocket write failed", zap.Error(err))
			return
		}
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
