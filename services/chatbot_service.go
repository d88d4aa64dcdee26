package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pms-chatbot/metrics"
	"pms-chatbot/models"
	"pms-chatbot/utils"
)

// MessageStore records finished exchanges. It is write-only from the
// chatbot's point of view.
type MessageStore interface {
	SaveMessage(ctx context.Context, message *models.Message) error
}

type ChatbotService struct {
	intentClassifier *utils.IntentClassifier
	entityExtractor  *utils.EntityExtractor
	router           *DialogueRouter
	store            MessageStore
	log              *zap.Logger
}

// NewChatbotService wires the NLU pieces to router. store may be nil when no
// transcript is kept.
func NewChatbotService(router *DialogueRouter, store MessageStore, log *zap.Logger) (*ChatbotService, error) {
	if router == nil {
		return nil, errors.New("services: dialogue router must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatbotService{
		intentClassifier: utils.NewIntentClassifier(),
		entityExtractor:  utils.NewEntityExtractor(),
		router:           router,
		store:            store,
		log:              log,
	}, nil
}

// Analyze runs intent classification and entity extraction over the same text
func (s *ChatbotService) Analyze(message string) models.IntentResult {
	intent, confidence := s.intentClassifier.ClassifyIntent(message)
	return models.IntentResult{
		Intent:     intent,
		Confidence: confidence,
		Entities:   s.entityExtractor.ExtractEntities(message),
	}
}

// ProcessMessage always produces a response. authorization is forwarded to
// the lookup services without being inspected.
func (s *ChatbotService) ProcessMessage(ctx context.Context, req models.ChatRequest, authorization string) *models.ChatResponse {
	sessionID := utils.ResolveSessionID(req.SessionID)

	s.log.Info("Processing message",
		zap.String("session_id", sessionID),
		zap.Int("length", len(req.Message)),
	)

	result := s.Analyze(req.Message)

	s.log.Info("Detected intent",
		zap.String("session_id", sessionID),
		zap.String("intent", string(result.Intent)),
		zap.Float64("confidence", result.Confidence),
	)
	metrics.MessagesTotal.WithLabelValues(string(result.Intent)).Inc()
	metrics.IntentConfidence.Observe(result.Confidence)

	response := s.router.Route(ctx, result.Intent, result.Entities, authorization)
	response.SessionID = sessionID

	s.saveMessage(ctx, response.ToMessage(req, result.Confidence))

	return response
}

// SupportedIntents lists the labels the classifier can produce
func (s *ChatbotService) SupportedIntents() []string {
	intents := s.intentClassifier.Intents()
	out := make([]string, 0, len(intents))
	for _, intent := range intents {
		out = append(out, string(intent))
	}
	return out
}

func (s *ChatbotService) saveMessage(ctx context.Context, message *models.Message) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveMessage(ctx, message); err != nil {
		s.log.Warn("Failed to save message",
			zap.String("session_id", message.SessionID),
			zap.Error(err),
		)
	}
}
