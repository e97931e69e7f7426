package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/types"
)

type EngagementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, engagement *types.Engagement) error
	// DistinctEngagedItemIDs returns the distinct item ids engaged against one
	// impression, restricted to the given action types and to events whose
	// timestamp falls inside [windowStart, windowEnd].
	DistinctEngagedItemIDs(ctx context.Context, tx *gorm.DB, recsetID string, actionTypes []string, windowStart, windowEnd int64) ([]int64, error)
}

type engagementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEngagementRepo(db *gorm.DB, baseLog *logger.Logger) EngagementRepo {
	return &engagementRepo{db: db, log: baseLog.With("repo", "EngagementRepo")}
}

func (r *engagementRepo) Create(ctx context.Context, tx *gorm.DB, engagement *types.Engagement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(engagement).Error; err != nil {
		return err
	}
	return nil
}

func (r *engagementRepo) DistinctEngagedItemIDs(ctx context.Context, tx *gorm.DB, recsetID string, actionTypes []string, windowStart, windowEnd int64) ([]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []int64
	if len(actionTypes) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Engagement{}).
		Distinct("item_id").
		Where("recset_id = ? AND action_type IN ? AND ts >= ? AND ts <= ?",
			recsetID, actionTypes, windowStart, windowEnd).
		Pluck("item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
