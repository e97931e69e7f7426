package recommender

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/webmediarec/backend/internal/logger"
)

// LearnedScorer ranks candidates by the model's probability of positive
// engagement. It reuses the popularity-based candidate pool strategy of the
// baseline scorer for operational parity.
type LearnedScorer struct {
	catalog Catalog
	log     *logger.Logger
}

func NewLearnedScorer(catalog Catalog, baseLog *logger.Logger) *LearnedScorer {
	return &LearnedScorer{catalog: catalog, log: baseLog.With("scorer", "learned")}
}

// Score returns up to k recommendations scored by the model. A user id
// outside the model's trained range yields an empty list and no error; the
// caller reads "empty" as "model cannot serve this user". A model invocation
// failure surfaces as ErrScorerUnavailable.
func (s *LearnedScorer) Score(ctx context.Context, model Model, userID int64, k, poolLimit int) ([]RecItem, error) {
	k = clampK(k)

	userIdx := int(userID) - 1
	if userIdx < 0 || userIdx >= model.NumUsers() {
		return []RecItem{}, nil
	}

	seen, err := s.catalog.SeenItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.catalog.TopCandidates(ctx, poolLimit)
	if err != nil {
		return nil, err
	}

	numItems := model.NumItems()
	candidates := make([]Candidate, 0, len(pool))
	itemIdxs := make([]int, 0, len(pool))
	for _, c := range pool {
		if _, ok := seen[c.ItemID]; ok {
			continue
		}
		itemIdx := int(c.ItemID) - 1
		if itemIdx < 0 || itemIdx >= numItems {
			continue
		}
		candidates = append(candidates, c)
		itemIdxs = append(itemIdxs, itemIdx)
	}
	if len(candidates) == 0 {
		return []RecItem{}, nil
	}

	logits, err := model.ScoreBatch(userIdx, itemIdxs)
	if err != nil {
		s.log.Warn("model invocation failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("%w: %v", ErrScorerUnavailable, err)
	}
	if len(logits) != len(candidates) {
		return nil, fmt.Errorf("%w: model returned %d scores for %d candidates",
			ErrScorerUnavailable, len(logits), len(candidates))
	}

	recs := make([]RecItem, 0, len(candidates))
	for i, c := range candidates {
		p := sigmoid(logits[i])
		recs = append(recs, RecItem{
			ItemID: c.ItemID,
			Title:  c.Title,
			Genres: c.Genres,
			Score:  p,
			Stats: map[string]float64{
				"p_like":            p,
				"interaction_count": float64(c.InteractionCount),
				"avg_rating":        c.AvgRating,
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > k {
		recs = recs[:k]
	}
	return recs, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
