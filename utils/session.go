package utils

import (
	"strings"

	"github.com/google/uuid"
)

var newSessionID = func() string {
	return uuid.NewString()
}

// ResolveSessionID keeps a caller supplied id and otherwise issues a fresh one.
// Nothing is stored; the id only correlates a request with its response.
func ResolveSessionID(sessionID string) string {
	if id := strings.TrimSpace(sessionID); id != "" {
		return id
	}
	return newSessionID()
}
