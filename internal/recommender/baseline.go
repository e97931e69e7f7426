package recommender

import (
	"context"
	"math"
	"sort"

	"github.com/webmediarec/backend/internal/logger"
)

// Composite weights. Numeric reproducibility depends on these exact values.
const (
	popularityWeight = 0.55
	avgRatingWeight  = 0.25
	genreWeight      = 0.20

	maxRating = 5.0
)

// BaselineScorer ranks unseen candidates by a deterministic, explainable
// composite of popularity, rating quality and genre affinity.
type BaselineScorer struct {
	catalog Catalog
	log     *logger.Logger
}

func NewBaselineScorer(catalog Catalog, baseLog *logger.Logger) *BaselineScorer {
	return &BaselineScorer{catalog: catalog, log: baseLog.With("scorer", "baseline")}
}

// Score returns up to k recommendations for the user, drawn from the top
// poolLimit items by global interaction count. Seen items are always
// excluded. An empty pool yields an empty result, not an error.
func (s *BaselineScorer) Score(ctx context.Context, userID int64, k, poolLimit int) ([]RecItem, error) {
	k = clampK(k)

	seen, err := s.catalog.SeenItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	affinity, err := s.GenreAffinity(ctx, userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.catalog.TopCandidates(ctx, poolLimit)
	if err != nil {
		return nil, err
	}

	maxCount := 1.0
	for _, c := range pool {
		if float64(c.InteractionCount) > maxCount {
			maxCount = float64(c.InteractionCount)
		}
	}

	scored := make([]RecItem, 0, len(pool))
	for _, c := range pool {
		if _, ok := seen[c.ItemID]; ok {
			continue
		}

		count := float64(c.InteractionCount)

		// Log compression keeps the single most popular item from dominating.
		popularityScore := math.Log1p(count) / math.Log1p(maxCount)
		avgRatingScore := clamp01(c.AvgRating / maxRating)

		genreMatchScore := 0.0
		if len(affinity) > 0 {
			for _, g := range c.Genres {
				genreMatchScore += affinity[g]
			}
			genreMatchScore = clamp01(genreMatchScore)
		}

		score := popularityWeight*popularityScore +
			avgRatingWeight*avgRatingScore +
			genreWeight*genreMatchScore

		scored = append(scored, RecItem{
			ItemID: c.ItemID,
			Title:  c.Title,
			Genres: c.Genres,
			Score:  score,
			Stats: map[string]float64{
				"interaction_count": count,
				"avg_rating":        c.AvgRating,
				"popularity_score":  popularityScore,
				"avg_rating_score":  avgRatingScore,
				"genre_match_score": genreMatchScore,
			},
		})
	}

	// Stable: ties keep pool (popularity) order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// GenreAffinity builds the user's normalized genre profile: interactions
// rated >= 4 contribute weight (rating - 3) per genre of the rated item, so a
// 4 contributes 1 and a 5 contributes 2. Weights sum to 1 across genres; a
// user with no qualifying interactions gets an empty profile.
func (s *BaselineScorer) GenreAffinity(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := s.catalog.PositiveRatedGenres(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildGenreAffinity(rows), nil
}

func BuildGenreAffinity(rows []RatedGenres) map[string]float64 {
	raw := make(map[string]float64)
	total := 0.0
	for _, row := range rows {
		w := float64(row.Rating - 3)
		for _, g := range row.Genres {
			raw[g] += w
			total += w
		}
	}
	if total <= 0 {
		return map[string]float64{}
	}
	for g := range raw {
		raw[g] /= total
	}
	return raw
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
