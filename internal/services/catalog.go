package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/types"
)

// CatalogService backs the bounded debug listings.
type CatalogService interface {
	ListUsers(ctx context.Context, limit int) ([]*types.User, error)
	ListItems(ctx context.Context, limit int) ([]*types.Item, error)
	ListInteractions(ctx context.Context, userID int64, limit int) ([]*types.Interaction, error)
}

type catalogService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	itemRepo        repos.ItemRepo
	interactionRepo repos.InteractionRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	itemRepo repos.ItemRepo,
	interactionRepo repos.InteractionRepo,
) CatalogService {
	return &catalogService{
		db:              db,
		log:             baseLog.With("service", "CatalogService"),
		userRepo:        userRepo,
		itemRepo:        itemRepo,
		interactionRepo: interactionRepo,
	}
}

func (s *catalogService) ListUsers(ctx context.Context, limit int) ([]*types.User, error) {
	return s.userRepo.List(ctx, nil, limit)
}

func (s *catalogService) ListItems(ctx context.Context, limit int) ([]*types.Item, error) {
	return s.itemRepo.List(ctx, nil, limit)
}

func (s *catalogService) ListInteractions(ctx context.Context, userID int64, limit int) ([]*types.Interaction, error) {
	return s.interactionRepo.ListByUser(ctx, nil, userID, limit)
}
