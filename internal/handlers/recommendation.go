package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/recommender"
	"github.com/webmediarec/backend/internal/services"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(baseLog *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    baseLog.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

// GET /api/recommendations?user_id=1&k=10&platform=web&engine=auto
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID < 1 {
		RespondError(c, http.StatusBadRequest, "invalid_input", errInvalidUserID)
		return
	}

	k := 10
	if raw := c.Query("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 1 || k > 100 {
			RespondError(c, http.StatusBadRequest, "invalid_input", errInvalidK)
			return
		}
	}

	engine, err := recommender.ParseEngine(c.DefaultQuery("engine", "auto"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	result, err := h.recSvc.Recommend(c.Request.Context(), userID, k, c.Query("platform"), engine)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
