package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"pms-chatbot/config"
	"pms-chatbot/metrics"
	"pms-chatbot/models"
)

const (
	servicePatient     = "patient-service"
	serviceDoctor      = "doctor-service"
	serviceAppointment = "appointment-service"

	maxErrorBody = 1024
)

// LookupClient reads patients, doctors and appointments from their services
// over HTTP. Each service sits behind its own circuit breaker; the
// Authorization value is passed through untouched.
type LookupClient struct {
	patientURL     string
	doctorURL      string
	appointmentURL string
	httpClient     *http.Client
	breakers       map[string]*gobreaker.CircuitBreaker
	log            *zap.Logger
}

func NewLookupClient(cfg *config.Config, log *zap.Logger) *LookupClient {
	if log == nil {
		log = zap.NewNop()
	}

	c := &LookupClient{
		patientURL:     strings.TrimRight(cfg.Services.PatientURL, "/"),
		doctorURL:      strings.TrimRight(cfg.Services.DoctorURL, "/"),
		appointmentURL: strings.TrimRight(cfg.Services.AppointmentURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Services.Timeout,
		},
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		log:      log,
	}
	for _, name := range []string{servicePatient, serviceDoctor, serviceAppointment} {
		c.breakers[name] = newBreaker(name, cfg.Breaker, log)
	}
	return c
}

func newBreaker(name string, settings config.BreakerConfig, log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// a missing record is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
}

func (c *LookupClient) PatientByID(ctx context.Context, patientID int64, authorization string) (*models.PatientSummary, error) {
	var patient models.PatientSummary
	endpoint := fmt.Sprintf("%s/api/patients/%d", c.patientURL, patientID)
	if err := c.getJSON(ctx, servicePatient, metrics.LookupPatient, endpoint, authorization, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (c *LookupClient) DoctorsBySpecialty(ctx context.Context, specialty, authorization string) ([]models.DoctorSummary, error) {
	var doctors []models.DoctorSummary
	endpoint := fmt.Sprintf("%s/api/doctors/specialty/%s", c.doctorURL, url.PathEscape(specialty))
	if err := c.getJSON(ctx, serviceDoctor, metrics.LookupDoctorsBySpecialty, endpoint, authorization, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *LookupClient) AvailableDoctors(ctx context.Context, authorization string) ([]models.DoctorSummary, error) {
	var doctors []models.DoctorSummary
	endpoint := c.doctorURL + "/api/doctors/available"
	if err := c.getJSON(ctx, serviceDoctor, metrics.LookupAvailableDoctors, endpoint, authorization, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *LookupClient) AppointmentsByPatient(ctx context.Context, patientID int64, authorization string) ([]models.AppointmentSummary, error) {
	var appointments []models.AppointmentSummary
	endpoint := fmt.Sprintf("%s/api/appointments/patient/%d", c.appointmentURL, patientID)
	if err := c.getJSON(ctx, serviceAppointment, metrics.LookupAppointments, endpoint, authorization, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *LookupClient) getJSON(ctx context.Context, service, lookup, endpoint, authorization string, out interface{}) error {
	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues(lookup).Observe(time.Since(start).Seconds())
	}()

	_, err := c.breakers[service].Execute(func() (interface{}, error) {
		return nil, c.do(ctx, service, endpoint, authorization, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.Warn("Circuit breaker open, request blocked",
			zap.String("breaker", service),
			zap.String("url", endpoint),
		)
		return &LookupError{Service: service, Err: err}
	}
	return err
}

func (c *LookupClient) do(ctx context.Context, service, endpoint, authorization string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &LookupError{Service: service, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &LookupError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &LookupError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &LookupError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}
