package recommender

import (
	"context"
	"errors"

	"github.com/webmediarec/backend/internal/logger"
)

// autoMinInteractions is the cold-start guard: auto only attempts the learned
// engine for users with at least this many recorded interactions.
const autoMinInteractions = 5

// Selector applies the per-request engine policy. It is stateless; the model
// handle is an explicitly owned, optionally present capability (nil when no
// model is loaded), never ambient global state.
type Selector struct {
	baseline  *BaselineScorer
	learned   *LearnedScorer
	catalog   Catalog
	model     Model // nil when not loaded
	poolLimit int
	log       *logger.Logger
}

func NewSelector(catalog Catalog, model Model, poolLimit int, baseLog *logger.Logger) *Selector {
	if poolLimit <= 0 {
		poolLimit = DefaultCandidatePool
	}
	return &Selector{
		baseline:  NewBaselineScorer(catalog, baseLog),
		learned:   NewLearnedScorer(catalog, baseLog),
		catalog:   catalog,
		model:     model,
		poolLimit: poolLimit,
		log:       baseLog.With("component", "Selector"),
	}
}

// ModelLoaded reports whether a learned model is available.
func (s *Selector) ModelLoaded() bool { return s.model != nil }

// Recommend scores for one request and reports the effective engine actually
// used, which is what gets persisted on the impression.
//
// baseline: always the baseline scorer.
// learned:  explicit; no loaded model is a caller error, and scorer failures
//           propagate.
// auto:     attempt learned only when a model is loaded, the user has at
//           least autoMinInteractions interactions and the user id is inside
//           the model's trained range; fall back to baseline when learned is
//           unavailable or returns an empty list.
func (s *Selector) Recommend(ctx context.Context, userID int64, k int, engine Engine) ([]RecItem, Engine, error) {
	switch engine {
	case EngineBaseline:
		items, err := s.baseline.Score(ctx, userID, k, s.poolLimit)
		return items, EngineBaseline, err

	case EngineLearned:
		if s.model == nil {
			return nil, EngineLearned, ErrEngineUnavailable
		}
		items, err := s.learned.Score(ctx, s.model, userID, k, s.poolLimit)
		return items, EngineLearned, err

	case EngineAuto:
		if items, ok := s.tryLearned(ctx, userID, k); ok {
			return items, EngineLearned, nil
		}
		items, err := s.baseline.Score(ctx, userID, k, s.poolLimit)
		return items, EngineBaseline, err
	}
	return nil, engine, ErrUnknownEngine
}

func (s *Selector) tryLearned(ctx context.Context, userID int64, k int) ([]RecItem, bool) {
	if s.model == nil {
		return nil, false
	}
	if userID < 1 || int(userID) > s.model.NumUsers() {
		return nil, false
	}
	count, err := s.catalog.InteractionCount(ctx, userID)
	if err != nil {
		s.log.Warn("interaction count lookup failed, falling back to baseline", "error", err, "user_id", userID)
		return nil, false
	}
	if count < autoMinInteractions {
		return nil, false
	}
	items, err := s.learned.Score(ctx, s.model, userID, k, s.poolLimit)
	if err != nil {
		if !errors.Is(err, ErrScorerUnavailable) {
			s.log.Warn("learned scorer failed, falling back to baseline", "error", err, "user_id", userID)
		}
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}
