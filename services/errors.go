package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when the requested record does not exist
var ErrNotFound = errors.New("services: not found")

// LookupError describes a failed call to the patient, doctor or appointment
// service. StatusCode is zero when no response was received.
type LookupError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("services: %s lookup failed with status %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("services: %s lookup failed: %v", e.Service, e.Err)
}

func (e *LookupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
