package models

type MessageIntent string

const (
	IntentGreeting                MessageIntent = "greeting"
	IntentAppointmentBooking      MessageIntent = "appointment_booking"
	IntentAppointmentCancellation MessageIntent = "appointment_cancellation"
	IntentAppointmentInquiry      MessageIntent = "appointment_inquiry"
	IntentDoctorInquiry           MessageIntent = "doctor_inquiry"
	IntentPatientInfo             MessageIntent = "patient_info"
	IntentHelp                    MessageIntent = "help"
	IntentGoodbye                 MessageIntent = "goodbye"
	IntentUnknown                 MessageIntent = "unknown"
)

// ActionType tags the follow-up a chat client is expected to perform.
type ActionType string

const (
	ActionBookAppointment   ActionType = "BOOK_APPOINTMENT"
	ActionCancelAppointment ActionType = "CANCEL_APPOINTMENT"
)

// Entity keys used in IntentResult.Entities and ChatResponse.ActionData
const (
	EntityDate          = "date"
	EntityTime          = "time"
	EntitySpecialty     = "specialty"
	EntityDoctorName    = "doctor_name"
	EntityPatientID     = "patient_id"
	EntityAppointmentID = "appointment_id"
)

// IntentResult is the NLU outcome for a single message. Confidence is the share
// of the winning intent's keywords found in the text, not a probability.
type IntentResult struct {
	Intent     MessageIntent          `json:"intent"`
	Confidence float64                `json:"confidence"`
	Entities   map[string]interface{} `json:"entities"`
}
