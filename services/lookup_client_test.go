package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms-chatbot/config"
	"pms-chatbot/models"
)

func newTestLookupClient(t *testing.T, handler http.Handler) *LookupClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Services: config.ServicesConfig{
			PatientURL:     srv.URL + "/",
			DoctorURL:      srv.URL,
			AppointmentURL: srv.URL,
			Timeout:        2 * time.Second,
		},
		Breaker: config.BreakerConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			FailureRatio: 0.6,
		},
	}
	return NewLookupClient(cfg, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLookupClient_PatientByID(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestLookupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(t, w, map[string]interface{}{
			"id": 123, "name": "Jane Doe", "age": 34, "gender": "Female",
			"disease": "Asthma", "email": "jane@example.com", "phone": "555-0100", "admitted": true,
		})
	}))

	patient, err := client.PatientByID(context.Background(), 123, "Bearer abc")
	require.NoError(t, err)

	assert.Equal(t, "/api/patients/123", gotPath)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, &models.PatientSummary{
		ID: 123, Name: "Jane Doe", Age: 34, Gender: "Female", Disease: "Asthma",
		Email: "jane@example.com", Phone: "555-0100", Admitted: true,
	}, patient)
}

func TestLookupClient_PatientNotFound(t *testing.T) {
	client := newTestLookupClient(t, http.NotFoundHandler())

	_, err := client.PatientByID(context.Background(), 9, "Bearer abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupClient_Doctors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/doctors/specialty/cardiology", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]interface{}{
			{"id": 1, "name": "Smith", "specialty": "cardiology", "qualification": "MD", "available": true},
		})
	})
	mux.HandleFunc("/api/doctors/available", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]interface{}{
			{"id": 2, "name": "Patel", "specialty": "neurology", "qualification": "DM", "available": true},
			{"id": 3, "name": "Lee", "specialty": "surgery", "qualification": "MS", "available": true},
		})
	})
	client := newTestLookupClient(t, mux)

	doctors, err := client.DoctorsBySpecialty(context.Background(), "cardiology", "")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Smith", doctors[0].Name)
	assert.True(t, doctors[0].Available)

	doctors, err = client.AvailableDoctors(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
}

func TestLookupClient_AppointmentsByPatient(t *testing.T) {
	client := newTestLookupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appointments/patient/42", r.URL.Path)
		writeJSON(t, w, []map[string]interface{}{
			{"id": 7, "dateTime": "2024-06-03T10:00:00", "reason": "Checkup", "status": "SCHEDULED", "patientId": 42, "doctorId": 1},
		})
	}))

	appointments, err := client.AppointmentsByPatient(context.Background(), 42, "Bearer abc")
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "2024-06-03T10:00:00", appointments[0].DateTime)
	assert.Equal(t, "SCHEDULED", appointments[0].Status)
}

func TestLookupClient_ServerErrorIsLookupError(t *testing.T) {
	client := newTestLookupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.AvailableDoctors(context.Background(), "")
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, http.StatusInternalServerError, lookupErr.StatusCode)
	assert.Equal(t, serviceDoctor, lookupErr.Service)
}

func TestLookupClient_MalformedBody(t *testing.T) {
	client := newTestLookupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))

	_, err := client.AppointmentsByPatient(context.Background(), 1, "")
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, serviceAppointment, lookupErr.Service)
}

func TestLookupClient_BreakerOpensAfterFailures(t *testing.T) {
	var hits int32
	client := newTestLookupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	for i := 0; i < 3; i++ {
		_, err := client.AvailableDoctors(context.Background(), "")
		require.Error(t, err)
	}

	_, err := client.AvailableDoctors(context.Background(), "")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))

	// breakers are per service
	_, err = client.PatientByID(context.Background(), 1, "")
	assert.False(t, errors.Is(err, gobreaker.ErrOpenState))
}

func TestLookupClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	client := newTestLookupClient(t, http.NotFoundHandler())

	for i := 0; i < 5; i++ {
		_, err := client.PatientByID(context.Background(), int64(i), "")
		assert.ErrorIs(t, err, ErrNotFound)
	}
}
