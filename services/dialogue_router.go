package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pms-chatbot/metrics"
	"pms-chatbot/models"
)

type PatientLookup interface {
	PatientByID(ctx context.Context, patientID int64, authorization string) (*models.PatientSummary, error)
}

type DoctorLookup interface {
	DoctorsBySpecialty(ctx context.Context, specialty, authorization string) ([]models.DoctorSummary, error)
	AvailableDoctors(ctx context.Context, authorization string) ([]models.DoctorSummary, error)
}

type AppointmentLookup interface {
	AppointmentsByPatient(ctx context.Context, patientID int64, authorization string) ([]models.AppointmentSummary, error)
}

const (
	greetingText     = "Hello! I'm your Patient Management System assistant. How can I help you today?"
	bookingText      = "I can help you book an appointment. Let me check available doctors for you."
	cancellationText = "I can help you cancel or reschedule your appointment. Please provide your patient ID or appointment details."
	helpText         = "I can help you with:\n" +
		"• Booking appointments\n" +
		"• Checking appointment details\n" +
		"• Finding doctors by specialty\n" +
		"• Viewing patient information\n" +
		"• Canceling appointments\n\n" +
		"What would you like to do?"
	goodbyeText = "Thank you for using our Patient Management System. Have a great day!"
	unknownText = "I'm not sure I understand. Could you please rephrase your question? " +
		"I can help you with appointments, doctors, or patient information."

	appointmentPromptText = "Please provide your patient ID to check your appointments."
	patientPromptText     = "Please provide your patient ID to view your information."

	appointmentApologyText = "Sorry, I couldn't retrieve your appointment information. Please try again later."
	doctorApologyText      = "Sorry, I couldn't retrieve doctor information. Please try again later."
	patientApologyText     = "Sorry, I couldn't retrieve your patient information. Please try again later."
)

type replyFunc func(r *DialogueRouter, ctx context.Context, entities map[string]interface{}, authorization string) string

// intentRoute describes how one intent is answered. Only routes with
// requiresAction set carry an action type and payload.
type intentRoute struct {
	reply          replyFunc
	requiresAction bool
	actionType     models.ActionType
	actionFields   []string
}

var unknownRoute = intentRoute{reply: staticReply(unknownText)}

var intentRoutes = map[models.MessageIntent]intentRoute{
	models.IntentGreeting: {reply: staticReply(greetingText)},
	models.IntentAppointmentBooking: {
		reply:          staticReply(bookingText),
		requiresAction: true,
		actionType:     models.ActionBookAppointment,
		actionFields: []string{
			models.EntityPatientID,
			models.EntityDate,
			models.EntityTime,
			models.EntitySpecialty,
		},
	},
	models.IntentAppointmentCancellation: {
		reply:          staticReply(cancellationText),
		requiresAction: true,
		actionType:     models.ActionCancelAppointment,
		actionFields:   []string{models.EntityPatientID, models.EntityAppointmentID},
	},
	models.IntentAppointmentInquiry: {reply: (*DialogueRouter).appointmentInfo},
	models.IntentDoctorInquiry:      {reply: (*DialogueRouter).doctorInfo},
	models.IntentPatientInfo:        {reply: (*DialogueRouter).patientInfo},
	models.IntentHelp:               {reply: staticReply(helpText)},
	models.IntentGoodbye:            {reply: staticReply(goodbyeText)},
	models.IntentUnknown:            unknownRoute,
}

func staticReply(text string) replyFunc {
	return func(*DialogueRouter, context.Context, map[string]interface{}, string) string {
		return text
	}
}

// DialogueRouter turns a classified intent and its entities into a reply.
// Lookup failures never escape Route; they become an apology text.
type DialogueRouter struct {
	patients     PatientLookup
	doctors      DoctorLookup
	appointments AppointmentLookup
	log          *zap.Logger
	now          func() time.Time
}

func NewDialogueRouter(patients PatientLookup, doctors DoctorLookup, appointments AppointmentLookup, log *zap.Logger) (*DialogueRouter, error) {
	if patients == nil {
		return nil, errors.New("services: patient lookup must not be nil")
	}
	if doctors == nil {
		return nil, errors.New("services: doctor lookup must not be nil")
	}
	if appointments == nil {
		return nil, errors.New("services: appointment lookup must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DialogueRouter{
		patients:     patients,
		doctors:      doctors,
		appointments: appointments,
		log:          log,
		now:          time.Now,
	}, nil
}

// Route builds the response for intent. The entity map is echoed back as is
// and the session id is left for the caller to fill in.
func (r *DialogueRouter) Route(ctx context.Context, intent models.MessageIntent, entities map[string]interface{}, authorization string) *models.ChatResponse {
	route, ok := intentRoutes[intent]
	if !ok {
		route = unknownRoute
	}

	text := route.reply(r, ctx, entities, authorization)

	var response *models.ChatResponse
	if route.requiresAction {
		response = models.NewActionResponse(text, intent, entities, route.actionType, pickEntities(entities, route.actionFields))
	} else {
		response = models.NewTextResponse(text, intent, entities)
	}
	response.Timestamp = r.now()
	return response
}

// RequiresAction reports whether intent asks the client for a follow-up
func RequiresAction(intent models.MessageIntent) bool {
	return intentRoutes[intent].requiresAction
}

func (r *DialogueRouter) appointmentInfo(ctx context.Context, entities map[string]interface{}, authorization string) string {
	patientID, ok := entityInt64(entities, models.EntityPatientID)
	if !ok {
		return appointmentPromptText
	}

	appointments, err := r.appointments.AppointmentsByPatient(ctx, patientID, authorization)
	if err != nil {
		r.lookupFailed(metrics.LookupAppointments, err, zap.Int64("patient_id", patientID))
		return appointmentApologyText
	}
	if len(appointments) == 0 {
		return fmt.Sprintf("No appointments found for patient ID %d", patientID)
	}

	var sb strings.Builder
	sb.WriteString("Here are your appointments:\n")
	for _, a := range appointments {
		fmt.Fprintf(&sb, "• %s - %s (%s)\n", a.DateTime, a.Reason, a.Status)
	}
	return sb.String()
}

func (r *DialogueRouter) doctorInfo(ctx context.Context, entities map[string]interface{}, authorization string) string {
	specialty, ok := entities[models.EntitySpecialty].(string)
	if !ok || specialty == "" {
		return r.availableDoctors(ctx, authorization)
	}

	doctors, err := r.doctors.DoctorsBySpecialty(ctx, specialty, authorization)
	if err != nil {
		r.lookupFailed(metrics.LookupDoctorsBySpecialty, err, zap.String("specialty", specialty))
		return doctorApologyText
	}
	if len(doctors) == 0 {
		return fmt.Sprintf("No %s doctors found.", specialty)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the %s doctors:\n", specialty)
	for _, d := range doctors {
		availability := "Not Available"
		if d.Available {
			availability = "Available"
		}
		fmt.Fprintf(&sb, "• Dr. %s - %s (%s)\n", d.Name, d.Qualification, availability)
	}
	return sb.String()
}

func (r *DialogueRouter) availableDoctors(ctx context.Context, authorization string) string {
	doctors, err := r.doctors.AvailableDoctors(ctx, authorization)
	if err != nil {
		r.lookupFailed(metrics.LookupAvailableDoctors, err)
		return doctorApologyText
	}
	if len(doctors) == 0 {
		return "No available doctors found."
	}

	var sb strings.Builder
	sb.WriteString("Here are the available doctors:\n")
	for _, d := range doctors {
		fmt.Fprintf(&sb, "• Dr. %s - %s (%s)\n", d.Name, d.Specialty, d.Qualification)
	}
	return sb.String()
}

func (r *DialogueRouter) patientInfo(ctx context.Context, entities map[string]interface{}, authorization string) string {
	patientID, ok := entityInt64(entities, models.EntityPatientID)
	if !ok {
		return patientPromptText
	}

	patient, err := r.patients.PatientByID(ctx, patientID, authorization)
	if errors.Is(err, ErrNotFound) || (err == nil && patient == nil) {
		return fmt.Sprintf("Patient not found with ID %d", patientID)
	}
	if err != nil {
		r.lookupFailed(metrics.LookupPatient, err, zap.Int64("patient_id", patientID))
		return patientApologyText
	}

	status := "Not Admitted"
	if patient.Admitted {
		status = "Admitted"
	}
	return fmt.Sprintf("Patient Information:\n"+
		"• Name: %s\n"+
		"• Age: %d\n"+
		"• Gender: %s\n"+
		"• Disease: %s\n"+
		"• Status: %s\n"+
		"• Email: %s\n"+
		"• Phone: %s",
		patient.Name,
		patient.Age,
		patient.Gender,
		patient.Disease,
		status,
		patient.Email,
		patient.Phone,
	)
}

func (r *DialogueRouter) lookupFailed(lookup string, err error, fields ...zap.Field) {
	metrics.LookupFailuresTotal.WithLabelValues(lookup).Inc()
	fields = append(fields, zap.String("lookup", lookup), zap.Error(err))
	r.log.Error("Collaborator lookup failed", fields...)
}

// pickEntities copies the present subset of keys into a new payload map
func pickEntities(entities map[string]interface{}, keys []string) map[string]interface{} {
	data := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		if value, ok := entities[key]; ok && value != nil {
			data[key] = value
		}
	}
	return data
}

// entityInt64 accepts the numeric forms an id can take after extraction or
// after a JSON round trip.
func entityInt64(entities map[string]interface{}, key string) (int64, bool) {
	switch v := entities[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
