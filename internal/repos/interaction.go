package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/types"
)

type InteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interactions []*types.Interaction) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]*types.Interaction, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{db: db, log: baseLog.With("repo", "InteractionRepo")}
}

func (r *interactionRepo) Create(ctx context.Context, tx *gorm.DB, interactions []*types.Interaction) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(interactions) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		CreateInBatches(&interactions, 1000).Error; err != nil {
		return err
	}
	return nil
}

func (r *interactionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]*types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Interaction
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ts DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
