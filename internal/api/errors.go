package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/ward-risk-dashboard/internal/dashboard"
	"github.com/mr1hm/ward-risk-dashboard/internal/floodapi"
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/session"
)

func writeError(c *gin.Context, err error) {
	var (
		ve *models.ValidationError
		se *floodapi.StatusError
		ue *url.Error
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, session.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.As(err, &se), errors.As(err, &ue):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
