package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	apperrors "github.com/webmediarec/backend/internal/pkg/errors"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/types"
)

// EngagementInput is one user action against a served impression. TS is
// optional; nil defaults to the current time.
type EngagementInput struct {
	RecsetID   string
	UserID     int64
	ItemID     int64
	ActionType string
	Platform   string
	TS         *int64
}

type EngagementService interface {
	Record(ctx context.Context, input EngagementInput) (*types.Engagement, error)
}

type engagementService struct {
	db             *gorm.DB
	log            *logger.Logger
	impressionRepo repos.ImpressionRepo
	engagementRepo repos.EngagementRepo
	now            func() time.Time
}

func NewEngagementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	impressionRepo repos.ImpressionRepo,
	engagementRepo repos.EngagementRepo,
) EngagementService {
	return &engagementService{
		db:             db,
		log:            baseLog.With("service", "EngagementService"),
		impressionRepo: impressionRepo,
		engagementRepo: engagementRepo,
		now:            time.Now,
	}
}

// Record validates the impression reference and ownership at write time, so
// rejection surfaces as a caller-facing error instead of relying on storage
// constraints. Repeated identical events are all stored; the PaC metric
// de-duplicates per item.
func (s *engagementService) Record(ctx context.Context, input EngagementInput) (*types.Engagement, error) {
	if input.RecsetID == "" {
		return nil, fmt.Errorf("%w: missing recset_id", apperrors.ErrInvalidInput)
	}
	if input.UserID < 1 || input.ItemID < 1 {
		return nil, fmt.Errorf("%w: user_id and item_id must be positive", apperrors.ErrInvalidInput)
	}
	if input.ActionType == "" {
		return nil, fmt.Errorf("%w: missing action_type", apperrors.ErrInvalidInput)
	}

	impression, err := s.impressionRepo.GetByRecsetID(ctx, nil, input.RecsetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: impression %s", apperrors.ErrNotFound, input.RecsetID)
		}
		return nil, err
	}
	if impression.UserID != input.UserID {
		return nil, fmt.Errorf("%w: impression %s belongs to user %d, not %d",
			apperrors.ErrOwnershipMismatch, input.RecsetID, impression.UserID, input.UserID)
	}

	ts := s.now().Unix()
	if input.TS != nil {
		ts = *input.TS
	}
	platform := input.Platform
	if platform == "" {
		platform = "web"
	}

	engagement := &types.Engagement{
		RecsetID:   input.RecsetID,
		UserID:     input.UserID,
		ItemID:     input.ItemID,
		ActionType: input.ActionType,
		Platform:   platform,
		TS:         ts,
	}
	if err := s.engagementRepo.Create(ctx, nil, engagement); err != nil {
		s.log.Error("engagement write failed", "error", err, "recset_id", input.RecsetID)
		return nil, err
	}
	return engagement, nil
}
