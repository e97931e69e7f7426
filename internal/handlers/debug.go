package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/services"
)

// DebugHandler exposes bounded listings of the seeded catalog for manual
// inspection. Not part of the public API surface.
type DebugHandler struct {
	log        *logger.Logger
	catalogSvc services.CatalogService
}

func NewDebugHandler(baseLog *logger.Logger, catalogSvc services.CatalogService) *DebugHandler {
	return &DebugHandler{
		log:        baseLog.With("handler", "DebugHandler"),
		catalogSvc: catalogSvc,
	}
}

func limitParam(c *gin.Context, defaultVal, maxVal int) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return defaultVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// GET /debug/users
func (h *DebugHandler) ListUsers(c *gin.Context) {
	users, err := h.catalogSvc.ListUsers(c.Request.Context(), limitParam(c, 10, 200))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, users)
}

// GET /debug/items
func (h *DebugHandler) ListItems(c *gin.Context) {
	items, err := h.catalogSvc.ListItems(c.Request.Context(), limitParam(c, 10, 200))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, items)
}

// GET /debug/interactions?user_id=1
func (h *DebugHandler) ListInteractions(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID < 1 {
		RespondError(c, http.StatusBadRequest, "invalid_input", errInvalidUserID)
		return
	}
	interactions, err := h.catalogSvc.ListInteractions(c.Request.Context(), userID, limitParam(c, 20, 200))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, interactions)
}
