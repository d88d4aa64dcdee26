package utils

import (
	"strings"

	"pms-chatbot/models"
)

type intentPattern struct {
	intent   models.MessageIntent
	keywords []string
}

// IntentClassifier scores messages against a fixed keyword table. The table is
// a slice so that ties always resolve to the earlier entry.
type IntentClassifier struct {
	patterns []intentPattern
}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		patterns: []intentPattern{
			{
				intent:   models.IntentGreeting,
				keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
			},
			// Ahead of booking: "reschedule" also contains "schedule".
			{
				intent:   models.IntentAppointmentCancellation,
				keywords: []string{"cancel", "reschedule", "postpone", "change"},
			},
			{
				intent:   models.IntentAppointmentInquiry,
				keywords: []string{"my appointments", "upcoming", "when", "time", "date"},
			},
			{
				intent:   models.IntentAppointmentBooking,
				keywords: []string{"book", "schedule", "appointment", "meeting", "visit"},
			},
			{
				intent:   models.IntentDoctorInquiry,
				keywords: []string{"doctor", "physician", "specialist", "specialty", "dr."},
			},
			{
				intent:   models.IntentPatientInfo,
				keywords: []string{"patient", "my info", "profile", "details"},
			},
			{
				intent:   models.IntentHelp,
				keywords: []string{"help", "support", "assistance", "how to"},
			},
			{
				intent:   models.IntentGoodbye,
				keywords: []string{"bye", "goodbye", "see you", "thanks", "thank you"},
			},
		},
	}
}

// ClassifyIntent returns the best matching intent and its keyword coverage.
// Messages without any keyword are IntentUnknown with confidence 0.
func (ic *IntentClassifier) ClassifyIntent(message string) (models.MessageIntent, float64) {
	message = strings.ToLower(strings.TrimSpace(message))

	maxIntent := models.IntentUnknown
	maxScore := 0
	total := 0
	for _, p := range ic.patterns {
		score := ic.countKeywords(message, p.keywords)
		if score > maxScore {
			maxScore = score
			maxIntent = p.intent
			total = len(p.keywords)
		}
	}

	if maxScore == 0 {
		return models.IntentUnknown, 0
	}
	confidence := float64(maxScore) / float64(total)
	if confidence > 1 {
		confidence = 1
	}
	return maxIntent, confidence
}

// Intents lists every label the classifier can return besides IntentUnknown
func (ic *IntentClassifier) Intents() []models.MessageIntent {
	intents := make([]models.MessageIntent, 0, len(ic.patterns))
	for _, p := range ic.patterns {
		intents = append(intents, p.intent)
	}
	return intents
}

// Keywords returns a copy of the keyword list configured for intent
func (ic *IntentClassifier) Keywords(intent models.MessageIntent) []string {
	for _, p := range ic.patterns {
		if p.intent == intent {
			return append([]string(nil), p.keywords...)
		}
	}
	return nil
}

func (ic *IntentClassifier) countKeywords(message string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			count++
		}
	}
	return count
}
