package recommender

import (
	"context"
	"errors"
)

// Engine names a scoring strategy. The effective engine recorded on an
// impression is always baseline or learned; auto is a request-time policy.
type Engine string

const (
	EngineBaseline Engine = "baseline"
	EngineLearned  Engine = "learned"
	EngineAuto     Engine = "auto"
)

var (
	// ErrUnknownEngine is returned for engine names outside the three policies.
	ErrUnknownEngine = errors.New("unknown engine")
	// ErrEngineUnavailable is returned when the learned engine is requested
	// explicitly but no model is loaded.
	ErrEngineUnavailable = errors.New("learned engine requested but no model is loaded")
	// ErrScorerUnavailable wraps a model invocation failure so callers can
	// treat the learned scorer as unavailable instead of crashing.
	ErrScorerUnavailable = errors.New("scorer unavailable")
)

func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineBaseline, EngineLearned, EngineAuto:
		return Engine(s), nil
	case "":
		return EngineAuto, nil
	}
	return "", ErrUnknownEngine
}

// RecItem is one ranked recommendation. Score scale depends on the engine
// that produced it (0..1 composite for baseline, a probability for learned);
// scores are not comparable across engines. Stats carries named diagnostic
// sub-scores for observability.
type RecItem struct {
	ItemID int64              `json:"item_id"`
	Title  string             `json:"title"`
	Genres []string           `json:"genres"`
	Score  float64            `json:"score"`
	Stats  map[string]float64 `json:"stats"`
}

// Candidate is a transient, per-request pool entry: an item plus the global
// aggregates joined from the interaction log. Never persisted.
type Candidate struct {
	ItemID           int64
	Title            string
	Genres           []string
	InteractionCount int64
	AvgRating        float64 // 0 when the item has no rated interactions
}

// RatedGenres is one positively rated interaction joined to the item's
// genres, the raw input for the genre affinity profile.
type RatedGenres struct {
	Genres []string
	Rating int
}

// Catalog is the read-only snapshot contract the scorers consume. All queries
// are bounded; none require coordination across requests.
type Catalog interface {
	SeenItemIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
	TopCandidates(ctx context.Context, limit int) ([]Candidate, error)
	PositiveRatedGenres(ctx context.Context, userID int64) ([]RatedGenres, error)
	InteractionCount(ctx context.Context, userID int64) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// DefaultCandidatePool bounds the popularity-ranked pool both scorers draw
// from.
const DefaultCandidatePool = 2000

func clampK(k int) int {
	if k < 1 {
		return 1
	}
	if k > 100 {
		return 100
	}
	return k
}
