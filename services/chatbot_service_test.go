package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms-chatbot/models"
)

type stubStore struct {
	saved []*models.Message
	err   error
}

func (s *stubStore) SaveMessage(_ context.Context, message *models.Message) error {
	s.saved = append(s.saved, message)
	return s.err
}

func newTestChatbotService(t *testing.T, store MessageStore) (*ChatbotService, *routerFixture) {
	t.Helper()
	f := newRouterFixture(t)
	svc, err := NewChatbotService(f.router, store, nil)
	require.NoError(t, err)
	return svc, f
}

func TestNewChatbotService_RequiresRouter(t *testing.T) {
	_, err := NewChatbotService(nil, nil, nil)
	require.Error(t, err)
}

func TestProcessMessage_Booking(t *testing.T) {
	svc, f := newTestChatbotService(t, nil)

	resp := svc.ProcessMessage(context.Background(), models.ChatRequest{
		Message: "I want to book an appointment for patient id 5",
	}, testToken)

	assert.Equal(t, models.IntentAppointmentBooking, resp.Intent)
	assert.True(t, resp.RequiresAction)
	assert.Equal(t, models.ActionBookAppointment, resp.ActionType)
	assert.Equal(t, map[string]interface{}{models.EntityPatientID: int64(5)}, resp.ActionData)
	assert.Equal(t, map[string]interface{}{models.EntityPatientID: int64(5)}, resp.Entities)
	assert.Zero(t, f.collaboratorCalls())
}

func TestProcessMessage_SessionID(t *testing.T) {
	svc, _ := newTestChatbotService(t, nil)

	t.Run("keeps caller id", func(t *testing.T) {
		resp := svc.ProcessMessage(context.Background(), models.ChatRequest{Message: "hello", SessionID: "abc-123"}, "")
		assert.Equal(t, "abc-123", resp.SessionID)
	})

	t.Run("generates id when missing", func(t *testing.T) {
		first := svc.ProcessMessage(context.Background(), models.ChatRequest{Message: "hello"}, "")
		second := svc.ProcessMessage(context.Background(), models.ChatRequest{Message: "hello"}, "")

		_, err := uuid.Parse(first.SessionID)
		require.NoError(t, err)
		assert.NotEqual(t, first.SessionID, second.SessionID)
	})
}

func TestProcessMessage_PatientLookupFailureIsSoft(t *testing.T) {
	svc, f := newTestChatbotService(t, nil)
	f.patients.err = errors.New("connection refused")

	resp := svc.ProcessMessage(context.Background(), models.ChatRequest{
		Message: "show patient 123",
	}, testToken)

	require.NotNil(t, resp)
	assert.Equal(t, models.IntentPatientInfo, resp.Intent)
	assert.Equal(t, patientApologyText, resp.Message)
	assert.Equal(t, int64(123), f.patients.lastID)
	assert.Equal(t, testToken, f.patients.lastToken)
}

func TestProcessMessage_Unknown(t *testing.T) {
	svc, f := newTestChatbotService(t, nil)

	resp := svc.ProcessMessage(context.Background(), models.ChatRequest{Message: "what is the weather like"}, "")

	assert.Equal(t, models.IntentUnknown, resp.Intent)
	assert.Equal(t, unknownText, resp.Message)
	assert.False(t, resp.RequiresAction)
	assert.Zero(t, f.collaboratorCalls())
}

func TestProcessMessage_SavesTranscript(t *testing.T) {
	store := &stubStore{}
	svc, _ := newTestChatbotService(t, store)

	resp := svc.ProcessMessage(context.Background(), models.ChatRequest{
		Message:   "Thank you, goodbye",
		SessionID: "s-1",
		UserID:    "u-1",
		Channel:   models.ChannelWebSocket,
	}, "")

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.Equal(t, "s-1", saved.SessionID)
	assert.Equal(t, "u-1", saved.UserID)
	assert.Equal(t, "Thank you, goodbye", saved.UserMessage)
	assert.Equal(t, resp.Message, saved.BotResponse)
	assert.Equal(t, models.IntentGoodbye, saved.Intent)
	assert.InDelta(t, 0.6, saved.Confidence, 1e-9)
	assert.Equal(t, models.ChannelWebSocket, saved.Channel)
	assert.Equal(t, resp.Timestamp, saved.Timestamp)
}

func TestProcessMessage_StoreFailureDoesNotAffectResponse(t *testing.T) {
	store := &stubStore{err: errors.New("write concern timeout")}
	svc, _ := newTestChatbotService(t, store)

	resp := svc.ProcessMessage(context.Background(), models.ChatRequest{Message: "hi", SessionID: "s-2"}, "")

	assert.Equal(t, greetingText, resp.Message)
	assert.Equal(t, "s-2", resp.SessionID)
	assert.Len(t, store.saved, 1)
}

func TestAnalyze(t *testing.T) {
	svc, _ := newTestChatbotService(t, nil)

	result := svc.Analyze("Find a cardiology doctor tomorrow morning")

	assert.Equal(t, models.IntentDoctorInquiry, result.Intent)
	assert.Greater(t, result.Confidence, 0.0)
	assert.Equal(t, "cardiology", result.Entities[models.EntitySpecialty])
	assert.Equal(t, "09:00", result.Entities[models.EntityTime])
	assert.Contains(t, result.Entities, models.EntityDate)
}

func TestSupportedIntents(t *testing.T) {
	svc, _ := newTestChatbotService(t, nil)

	want := []string{
		"greeting", "appointment_booking", "appointment_inquiry", "appointment_cancellation",
		"doctor_inquiry", "patient_info", "help", "goodbye",
	}
	assert.ElementsMatch(t, want, svc.SupportedIntents())
	assert.Equal(t, svc.SupportedIntents(), svc.SupportedIntents())
}
