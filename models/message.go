package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageChannel represents the transport a message arrived on
type MessageChannel string

const (
	ChannelWeb       MessageChannel = "web"
	ChannelWebSocket MessageChannel = "websocket"
)

// Message is one exchange written to the transcript collection
type Message struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	SessionID      string                 `bson:"session_id" json:"session_id"`
	UserID         string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserMessage    string                 `bson:"user_message" json:"user_message"`
	BotResponse    string                 `bson:"bot_response" json:"bot_response"`
	Intent         MessageIntent          `bson:"intent" json:"intent"`
	Confidence     float64                `bson:"confidence" json:"confidence"`
	Entities       map[string]interface{} `bson:"entities,omitempty" json:"entities,omitempty"`
	RequiresAction bool                   `bson:"requires_action" json:"requires_action"`
	ActionType     ActionType             `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Channel        MessageChannel         `bson:"channel,omitempty" json:"channel,omitempty"`
	Timestamp      time.Time              `bson:"timestamp" json:"timestamp"`
}

type ChatRequest struct {
	Message   string         `json:"message" binding:"required"`
	SessionID string         `json:"sessionId,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Channel   MessageChannel `json:"-"`
}

// ChatResponse is the only artifact returned to chat clients. Field names
// follow the chat widget's contract.
type ChatResponse struct {
	Message        string                 `json:"message"`
	Intent         MessageIntent          `json:"intent"`
	Entities       map[string]interface{} `json:"entities"`
	Timestamp      time.Time              `json:"timestamp"`
	SessionID      string                 `json:"sessionId"`
	RequiresAction bool                   `json:"requiresAction"`
	ActionType     ActionType             `json:"actionType,omitempty"`
	ActionData     map[string]interface{} `json:"actionData"`
}

// NewTextResponse builds a response that needs no follow-up action
func NewTextResponse(text string, intent MessageIntent, entities map[string]interface{}) *ChatResponse {
	return &ChatResponse{
		Message:    text,
		Intent:     intent,
		Entities:   entities,
		ActionData: map[string]interface{}{},
	}
}

// NewActionResponse builds a response that asks the client to perform action
func NewActionResponse(text string, intent MessageIntent, entities map[string]interface{}, action ActionType, data map[string]interface{}) *ChatResponse {
	return &ChatResponse{
		Message:        text,
		Intent:         intent,
		Entities:       entities,
		RequiresAction: true,
		ActionType:     action,
		ActionData:     data,
	}
}

// ToMessage converts an exchange into its transcript record
func (cr ChatResponse) ToMessage(req ChatRequest, confidence float64) *Message {
	return &Message{
		SessionID:      cr.SessionID,
		UserID:         req.UserID,
		UserMessage:    req.Message,
		BotResponse:    cr.Message,
		Intent:         cr.Intent,
		Confidence:     confidence,
		Entities:       cr.Entities,
		RequiresAction: cr.RequiresAction,
		ActionType:     cr.ActionType,
		Channel:        req.Channel,
		Timestamp:      cr.Timestamp,
	}
}
