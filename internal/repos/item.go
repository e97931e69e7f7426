package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/types"
)

type ItemRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, items []*types.Item) error
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Item, error)
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return &itemRepo{db: db, log: baseLog.With("repo", "ItemRepo")}
}

func (r *itemRepo) Upsert(ctx context.Context, tx *gorm.DB, items []*types.Item) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *itemRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
