package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/services"
)

var (
	errInvalidUserID = errors.New("user_id must be a positive integer")
	errInvalidK      = errors.New("k must be an integer in [1,100]")
)

type EngagementHandler struct {
	log    *logger.Logger
	engSvc services.EngagementService
}

func NewEngagementHandler(baseLog *logger.Logger, engSvc services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		log:    baseLog.With("handler", "EngagementHandler"),
		engSvc: engSvc,
	}
}

type engagementRequest struct {
	RecsetID   string `json:"recset_id" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required"`
	ItemID     int64  `json:"item_id" binding:"required"`
	ActionType string `json:"action_type" binding:"required"`
	Platform   string `json:"platform"`
	TS         *int64 `json:"ts"`
}

// POST /api/engagements
func (h *EngagementHandler) PostEngagement(c *gin.Context) {
	var req engagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	engagement, err := h.engSvc.Record(c.Request.Context(), services.EngagementInput{
		RecsetID:   req.RecsetID,
		UserID:     req.UserID,
		ItemID:     req.ItemID,
		ActionType: req.ActionType,
		Platform:   req.Platform,
		TS:         req.TS,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, engagement)
}
