package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	apperrors "github.com/webmediarec/backend/internal/pkg/errors"
	"github.com/webmediarec/backend/internal/recommender"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/types"
)

// RecommendationResult is one served ranked list plus the impression that
// records it. Engine is the effective engine actually used, not the
// requested mode.
type RecommendationResult struct {
	RecsetID string                `json:"recset_id"`
	Engine   recommender.Engine    `json:"engine"`
	Items    []recommender.RecItem `json:"items"`
}

type RecommendationService interface {
	Recommend(ctx context.Context, userID int64, k int, platform string, engine recommender.Engine) (*RecommendationResult, error)
}

type recommendationService struct {
	db             *gorm.DB
	log            *logger.Logger
	selector       *recommender.Selector
	catalog        repos.CatalogRepo
	impressionRepo repos.ImpressionRepo
	now            func() time.Time
}

func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	selector *recommender.Selector,
	catalog repos.CatalogRepo,
	impressionRepo repos.ImpressionRepo,
) RecommendationService {
	return &recommendationService{
		db:             db,
		log:            baseLog.With("service", "RecommendationService"),
		selector:       selector,
		catalog:        catalog,
		impressionRepo: impressionRepo,
		now:            time.Now,
	}
}

// Recommend scores one request and durably records the impression before the
// result is observable by the caller.
func (s *recommendationService) Recommend(ctx context.Context, userID int64, k int, platform string, engine recommender.Engine) (*RecommendationResult, error) {
	if userID < 1 {
		return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, userID)
	}
	exists, err := s.catalog.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, userID)
	}

	if k < 1 {
		k = 1
	} else if k > 100 {
		k = 100
	}
	if platform == "" {
		platform = "web"
	}

	items, effective, err := s.selector.Recommend(ctx, userID, k, engine)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]int64, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ItemID)
	}
	encoded, err := types.EncodeItemIDs(itemIDs)
	if err != nil {
		return nil, err
	}

	impression := &types.Impression{
		RecsetID: uuid.NewString(),
		UserID:   userID,
		Platform: platform,
		TS:       s.now().Unix(),
		K:        k,
		Engine:   string(effective),
		ItemIDs:  encoded,
	}
	if err := s.impressionRepo.Create(ctx, nil, impression); err != nil {
		s.log.Error("impression write failed", "error", err, "user_id", userID)
		return nil, err
	}

	s.log.Debug("served recommendations",
		"user_id", userID, "recset_id", impression.RecsetID,
		"engine", effective, "k", k, "returned", len(items))

	return &RecommendationResult{
		RecsetID: impression.RecsetID,
		Engine:   effective,
		Items:    items,
	}, nil
}
