package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/webmediarec/backend/internal/pkg/errors"
	"github.com/webmediarec/backend/internal/recommender"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the error taxonomy onto HTTP statuses. Every named
// failure keeps its identity; nothing is coerced to a default value.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, recommender.ErrUnknownEngine):
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, apperrors.ErrOwnershipMismatch):
		RespondError(c, http.StatusConflict, "ownership_mismatch", err)
	case errors.Is(err, recommender.ErrEngineUnavailable), errors.Is(err, recommender.ErrScorerUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "engine_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
