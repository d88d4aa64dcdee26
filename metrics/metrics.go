package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pms_chatbot_messages_total",
		Help: "Chat messages processed, by classified intent",
	}, []string{"intent"})

	IntentConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pms_chatbot_intent_confidence",
		Help:    "Keyword coverage of the winning intent",
		Buckets: []float64{0, 0.2, 0.4, 0.6, 0.8, 1},
	})

	LookupFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pms_chatbot_lookup_failures_total",
		Help: "Collaborator lookups answered with an apology",
	}, []string{"lookup"})

	LookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pms_chatbot_lookup_duration_seconds",
		Help:    "Latency of patient, doctor and appointment service calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"lookup"})
)

// Lookup labels
const (
	LookupPatient            = "patient"
	LookupDoctorsBySpecialty = "doctors_by_specialty"
	LookupAvailableDoctors   = "available_doctors"
	LookupAppointments       = "appointments"
)
