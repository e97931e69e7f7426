package services

import (
	"context"
	"time"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/metrics"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/types"
)

type MetricsService interface {
	PaC(ctx context.Context, params metrics.Params) (*metrics.Report, error)
}

type metricsService struct {
	log        *logger.Logger
	aggregator *metrics.Aggregator
	now        func() time.Time
}

func NewMetricsService(
	baseLog *logger.Logger,
	impressionRepo repos.ImpressionRepo,
	engagementRepo repos.EngagementRepo,
) MetricsService {
	return &metricsService{
		log: baseLog.With("service", "MetricsService"),
		aggregator: metrics.NewAggregator(
			impressionSource{repo: impressionRepo},
			engagementSource{repo: engagementRepo},
			baseLog,
		),
		now: time.Now,
	}
}

func (s *metricsService) PaC(ctx context.Context, params metrics.Params) (*metrics.Report, error) {
	normalized, err := params.Normalize(s.now())
	if err != nil {
		return nil, err
	}
	return s.aggregator.Compute(ctx, normalized)
}

// Thin adapters: the metrics package reads through transaction-free
// interfaces so it stays decoupled from gorm.

type impressionSource struct {
	repo repos.ImpressionRepo
}

func (a impressionSource) ListInRange(ctx context.Context, start, end int64, platform, engine string) ([]*types.Impression, error) {
	return a.repo.ListInRange(ctx, nil, start, end, platform, engine)
}

type engagementSource struct {
	repo repos.EngagementRepo
}

func (a engagementSource) DistinctEngagedItemIDs(ctx context.Context, recsetID string, actionTypes []string, windowStart, windowEnd int64) ([]int64, error) {
	return a.repo.DistinctEngagedItemIDs(ctx, nil, recsetID, actionTypes, windowStart, windowEnd)
}
