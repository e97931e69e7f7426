package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	apperrors "github.com/webmediarec/backend/internal/pkg/errors"
	"github.com/webmediarec/backend/internal/recommender"
	"github.com/webmediarec/backend/internal/types"
)

type fakeCatalogRepo struct {
	users        map[int64]bool
	seen         map[int64]struct{}
	candidates   []recommender.Candidate
	ratedGenres  []recommender.RatedGenres
	interactions int64
}

func (f *fakeCatalogRepo) SeenItemIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	if f.seen == nil {
		return map[int64]struct{}{}, nil
	}
	return f.seen, nil
}

func (f *fakeCatalogRepo) TopCandidates(ctx context.Context, limit int) ([]recommender.Candidate, error) {
	if limit < len(f.candidates) {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func (f *fakeCatalogRepo) PositiveRatedGenres(ctx context.Context, userID int64) ([]recommender.RatedGenres, error) {
	return f.ratedGenres, nil
}

func (f *fakeCatalogRepo) InteractionCount(ctx context.Context, userID int64) (int64, error) {
	return f.interactions, nil
}

func (f *fakeCatalogRepo) UserExists(ctx context.Context, userID int64) (bool, error) {
	return f.users[userID], nil
}

type fakeImpressionRepo struct {
	created   []*types.Impression
	createErr error
}

func (f *fakeImpressionRepo) Create(ctx context.Context, tx *gorm.DB, impression *types.Impression) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, impression)
	return nil
}

func (f *fakeImpressionRepo) GetByRecsetID(ctx context.Context, tx *gorm.DB, recsetID string) (*types.Impression, error) {
	for _, im := range f.created {
		if im.RecsetID == recsetID {
			return im, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImpressionRepo) ListInRange(ctx context.Context, tx *gorm.DB, start, end int64, platform, engine string) ([]*types.Impression, error) {
	return f.created, nil
}

func newTestRecommendationService(catalog *fakeCatalogRepo, impressions *fakeImpressionRepo) RecommendationService {
	log := logger.NewNop()
	selector := recommender.NewSelector(catalog, nil, 100, log)
	return NewRecommendationService(nil, log, selector, catalog, impressions)
}

func popularCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		users: map[int64]bool{1: true},
		candidates: []recommender.Candidate{
			{ItemID: 10, Title: "a", InteractionCount: 30, AvgRating: 4.5},
			{ItemID: 20, Title: "b", InteractionCount: 20, AvgRating: 3.5},
			{ItemID: 30, Title: "c", InteractionCount: 10, AvgRating: 3.0},
		},
	}
}

func TestRecommendUnknownUser(t *testing.T) {
	svc := newTestRecommendationService(popularCatalog(), &fakeImpressionRepo{})

	for _, userID := range []int64{0, -1, 999} {
		_, err := svc.Recommend(context.Background(), userID, 10, "web", recommender.EngineAuto)
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("user %d: want ErrNotFound, got %v", userID, err)
		}
	}
}

func TestRecommendPersistsImpression(t *testing.T) {
	impressions := &fakeImpressionRepo{}
	svc := newTestRecommendationService(popularCatalog(), impressions)

	result, err := svc.Recommend(context.Background(), 1, 2, "", recommender.EngineAuto)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.RecsetID == "" {
		t.Fatal("recset_id empty")
	}
	if result.Engine != recommender.EngineBaseline {
		t.Errorf("effective engine %q, want baseline without a model", result.Engine)
	}
	if len(result.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(result.Items))
	}

	if len(impressions.created) != 1 {
		t.Fatalf("impression count %d, want 1", len(impressions.created))
	}
	im := impressions.created[0]
	if im.RecsetID != result.RecsetID {
		t.Errorf("impression recset %q != result recset %q", im.RecsetID, result.RecsetID)
	}
	if im.Engine != string(recommender.EngineBaseline) {
		t.Errorf("impression engine %q, want effective engine", im.Engine)
	}
	if im.Platform != "web" {
		t.Errorf("empty platform should default to web, got %q", im.Platform)
	}
	if im.K != 2 {
		t.Errorf("impression k=%d, want 2", im.K)
	}

	stored := im.ItemIDList()
	if len(stored) != len(result.Items) {
		t.Fatalf("stored %d ids for %d served items", len(stored), len(result.Items))
	}
	for i, it := range result.Items {
		if stored[i] != it.ItemID {
			t.Errorf("stored rank %d is %d, served %d", i, stored[i], it.ItemID)
		}
	}
}

func TestRecommendRecsetIDsUnique(t *testing.T) {
	impressions := &fakeImpressionRepo{}
	svc := newTestRecommendationService(popularCatalog(), impressions)

	ids := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		result, err := svc.Recommend(context.Background(), 1, 3, "web", recommender.EngineBaseline)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if _, dup := ids[result.RecsetID]; dup {
			t.Fatalf("recset_id %q repeated", result.RecsetID)
		}
		ids[result.RecsetID] = struct{}{}
	}
}

func TestRecommendClampsK(t *testing.T) {
	impressions := &fakeImpressionRepo{}
	svc := newTestRecommendationService(popularCatalog(), impressions)

	result, err := svc.Recommend(context.Background(), 1, -7, "web", recommender.EngineBaseline)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("k below bound should clamp to 1, got %d items", len(result.Items))
	}
	if impressions.created[0].K != 1 {
		t.Errorf("impression k=%d, want clamped 1", impressions.created[0].K)
	}
}

func TestRecommendImpressionWriteFailure(t *testing.T) {
	impressions := &fakeImpressionRepo{createErr: errors.New("disk full")}
	svc := newTestRecommendationService(popularCatalog(), impressions)

	if _, err := svc.Recommend(context.Background(), 1, 5, "web", recommender.EngineBaseline); err == nil {
		t.Fatal("failed impression write must fail the request")
	}
}

func TestRecommendLearnedWithoutModel(t *testing.T) {
	svc := newTestRecommendationService(popularCatalog(), &fakeImpressionRepo{})
	_, err := svc.Recommend(context.Background(), 1, 5, "web", recommender.EngineLearned)
	if !errors.Is(err, recommender.ErrEngineUnavailable) {
		t.Fatalf("want ErrEngineUnavailable, got %v", err)
	}
}
