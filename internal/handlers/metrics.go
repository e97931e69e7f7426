package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/metrics"
	"github.com/webmediarec/backend/internal/services"
)

type MetricsHandler struct {
	log        *logger.Logger
	metricsSvc services.MetricsService
}

func NewMetricsHandler(baseLog *logger.Logger, metricsSvc services.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		log:        baseLog.With("handler", "MetricsHandler"),
		metricsSvc: metricsSvc,
	}
}

// GET /api/metrics/pac?start_ts=&end_ts=&k=&window_hours=&platform=&engine=&action_types=click,like
func (h *MetricsHandler) GetPaC(c *gin.Context) {
	// Absent range params stay negative so Normalize applies the trailing
	// default; an explicit 0 is a real epoch timestamp.
	params := metrics.Params{
		Start:    -1,
		End:      -1,
		Platform: c.Query("platform"),
		Engine:   c.Query("engine"),
	}

	for _, field := range []struct {
		name string
		dst  *int64
	}{
		{"start_ts", &params.Start},
		{"end_ts", &params.End},
	} {
		if raw := c.Query(field.name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				RespondError(c, http.StatusBadRequest, "invalid_input", errBadIntParam(field.name))
				return
			}
			*field.dst = v
		}
	}
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"k", &params.K},
		{"window_hours", &params.WindowHours},
	} {
		if raw := c.Query(field.name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				RespondError(c, http.StatusBadRequest, "invalid_input", errBadIntParam(field.name))
				return
			}
			*field.dst = v
		}
	}

	if raw := c.Query("action_types"); raw != "" {
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		params.ActionTypes = out
	}

	report, err := h.metricsSvc.PaC(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

type badIntParam string

func errBadIntParam(name string) error { return badIntParam(name) }

func (b badIntParam) Error() string { return string(b) + " must be an integer" }
