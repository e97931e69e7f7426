package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/types"
)

type ImpressionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, impression *types.Impression) error
	GetByRecsetID(ctx context.Context, tx *gorm.DB, recsetID string) (*types.Impression, error)
	ListInRange(ctx context.Context, tx *gorm.DB, start, end int64, platform, engine string) ([]*types.Impression, error)
}

type impressionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImpressionRepo(db *gorm.DB, baseLog *logger.Logger) ImpressionRepo {
	return &impressionRepo{db: db, log: baseLog.With("repo", "ImpressionRepo")}
}

func (r *impressionRepo) Create(ctx context.Context, tx *gorm.DB, impression *types.Impression) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(impression).Error; err != nil {
		return err
	}
	return nil
}

func (r *impressionRepo) GetByRecsetID(ctx context.Context, tx *gorm.DB, recsetID string) (*types.Impression, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Impression
	if err := transaction.WithContext(ctx).
		Where("recset_id = ?", recsetID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *impressionRepo) ListInRange(ctx context.Context, tx *gorm.DB, start, end int64, platform, engine string) ([]*types.Impression, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("ts >= ? AND ts <= ?", start, end)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if engine != "" {
		query = query.Where("engine = ?", engine)
	}
	var results []*types.Impression
	if err := query.Order("ts ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
