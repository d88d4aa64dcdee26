package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	transcriptCheck func(ctx context.Context) error
}

// NewHealthController reports transcript store reachability through check.
// A nil check means no transcript store is configured.
func NewHealthController(check func(ctx context.Context) error) *HealthController {
	return &HealthController{transcriptCheck: check}
}

func (hc *HealthController) Health(c *gin.Context) {
	transcript := "disabled"
	if hc.transcriptCheck != nil {
		transcript = "ok"
		if err := hc.transcriptCheck(c.Request.Context()); err != nil {
			transcript = "unreachable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"timestamp":  time.Now().Unix(),
		"transcript": transcript,
	})
}
