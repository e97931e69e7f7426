package metrics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/webmediarec/backend/internal/logger"
	apperrors "github.com/webmediarec/backend/internal/pkg/errors"
	"github.com/webmediarec/backend/internal/types"
)

type fakeImpressions struct {
	rows []*types.Impression
	err  error

	gotStart, gotEnd      int64
	gotPlatform, gotEngine string
}

func (f *fakeImpressions) ListInRange(ctx context.Context, start, end int64, platform, engine string) ([]*types.Impression, error) {
	f.gotStart, f.gotEnd = start, end
	f.gotPlatform, f.gotEngine = platform, engine
	return f.rows, f.err
}

// fakeEngagements returns, per recset id, only the recorded (item, ts) pairs
// that fall inside the requested window, mirroring the repository query.
type fakeEngagements struct {
	byRecset map[string][]engagedAt
	err      error
}

type engagedAt struct {
	itemID int64
	ts     int64
}

func (f *fakeEngagements) DistinctEngagedItemIDs(ctx context.Context, recsetID string, actionTypes []string, windowStart, windowEnd int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[int64]struct{}{}
	var out []int64
	for _, e := range f.byRecset[recsetID] {
		if e.ts < windowStart || e.ts > windowEnd {
			continue
		}
		if _, dup := seen[e.itemID]; dup {
			continue
		}
		seen[e.itemID] = struct{}{}
		out = append(out, e.itemID)
	}
	return out, nil
}

func mustImpression(t *testing.T, recsetID string, ts int64, k int, itemIDs []int64) *types.Impression {
	t.Helper()
	encoded, err := types.EncodeItemIDs(itemIDs)
	if err != nil {
		t.Fatalf("encode item ids: %v", err)
	}
	return &types.Impression{
		RecsetID: recsetID,
		UserID:   1,
		Platform: "web",
		TS:       ts,
		K:        k,
		Engine:   "baseline",
		ItemIDs:  encoded,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeSingleImpressionWindow(t *testing.T) {
	// One impression of [1,2,3] at ts=1000 with a 1 hour window. The click on
	// item 2 at 1500 is inside, the one on item 3 at 5000 is not.
	impressions := &fakeImpressions{rows: []*types.Impression{
		mustImpression(t, "r1", 1000, 3, []int64{1, 2, 3}),
	}}
	engagements := &fakeEngagements{byRecset: map[string][]engagedAt{
		"r1": {{itemID: 2, ts: 1500}, {itemID: 3, ts: 5000}},
	}}

	agg := NewAggregator(impressions, engagements, logger.NewNop())
	report, err := agg.Compute(context.Background(), Params{
		Start: 0, End: 2000, K: 3, WindowHours: 1, ActionTypes: []string{"click"},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if report.TotalHits != 1 {
		t.Errorf("total hits=%d, want 1", report.TotalHits)
	}
	if report.TotalRecommended != 3 {
		t.Errorf("total recommended=%d, want 3", report.TotalRecommended)
	}
	if !approx(report.PaCMean, 1.0/3.0) {
		t.Errorf("pac_mean=%v, want 1/3", report.PaCMean)
	}
	if !approx(report.PaCMicro, 1.0/3.0) {
		t.Errorf("pac_micro=%v, want 1/3", report.PaCMicro)
	}
	if report.Impressions != 1 {
		t.Errorf("impressions=%d, want 1", report.Impressions)
	}
}

func TestComputeMacroMicroDiverge(t *testing.T) {
	// Impression A: 2 items, 2 hits (ratio 1.0). Impression B: 4 items, 1 hit
	// (ratio 0.25). Macro mean 0.625, micro 3/6 = 0.5.
	impressions := &fakeImpressions{rows: []*types.Impression{
		mustImpression(t, "a", 1000, 2, []int64{1, 2}),
		mustImpression(t, "b", 1000, 4, []int64{3, 4, 5, 6}),
	}}
	engagements := &fakeEngagements{byRecset: map[string][]engagedAt{
		"a": {{itemID: 1, ts: 1100}, {itemID: 2, ts: 1200}},
		"b": {{itemID: 3, ts: 1100}},
	}}

	agg := NewAggregator(impressions, engagements, logger.NewNop())
	report, err := agg.Compute(context.Background(), Params{
		Start: 0, End: 2000, K: 10, WindowHours: 1, ActionTypes: []string{"click"},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !approx(report.PaCMean, 0.625) {
		t.Errorf("pac_mean=%v, want 0.625", report.PaCMean)
	}
	if !approx(report.PaCMicro, 0.5) {
		t.Errorf("pac_micro=%v, want 0.5", report.PaCMicro)
	}
	if report.TotalHits != 3 || report.TotalRecommended != 6 {
		t.Errorf("totals=(%d,%d), want (3,6)", report.TotalHits, report.TotalRecommended)
	}
}

func TestComputeTruncatesToK(t *testing.T) {
	// Stored list has 5 items but K=2: the hit on rank 3 must not count.
	impressions := &fakeImpressions{rows: []*types.Impression{
		mustImpression(t, "r1", 1000, 5, []int64{1, 2, 3, 4, 5}),
	}}
	engagements := &fakeEngagements{byRecset: map[string][]engagedAt{
		"r1": {{itemID: 3, ts: 1100}},
	}}

	agg := NewAggregator(impressions, engagements, logger.NewNop())
	report, err := agg.Compute(context.Background(), Params{
		Start: 0, End: 2000, K: 2, WindowHours: 1, ActionTypes: []string{"click"},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if report.TotalHits != 0 {
		t.Errorf("hit outside truncated top-k counted: hits=%d", report.TotalHits)
	}
	if report.TotalRecommended != 2 {
		t.Errorf("total recommended=%d, want 2", report.TotalRecommended)
	}
}

func TestComputeEmptyRange(t *testing.T) {
	agg := NewAggregator(&fakeImpressions{}, &fakeEngagements{}, logger.NewNop())
	report, err := agg.Compute(context.Background(), Params{
		Start: 0, End: 2000, K: 10, WindowHours: 24, ActionTypes: []string{"click"},
	})
	if err != nil {
		t.Fatalf("empty range must not error: %v", err)
	}
	if report.PaCMean != 0 || report.PaCMicro != 0 || report.Impressions != 0 ||
		report.TotalHits != 0 || report.TotalRecommended != 0 {
		t.Errorf("empty range should zero every statistic: %+v", report)
	}
}

func TestComputeSkipsMalformedPayload(t *testing.T) {
	bad := &types.Impression{RecsetID: "bad", TS: 1000, K: 3, ItemIDs: []byte(`{"not":"a list"}`)}
	good := mustImpression(t, "good", 1000, 2, []int64{1, 2})
	impressions := &fakeImpressions{rows: []*types.Impression{bad, good}}
	engagements := &fakeEngagements{byRecset: map[string][]engagedAt{
		"good": {{itemID: 1, ts: 1100}},
	}}

	agg := NewAggregator(impressions, engagements, logger.NewNop())
	report, err := agg.Compute(context.Background(), Params{
		Start: 0, End: 2000, K: 10, WindowHours: 1, ActionTypes: []string{"click"},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if report.Impressions != 1 {
		t.Errorf("malformed impression should be skipped, considered=%d", report.Impressions)
	}
	if !approx(report.PaCMean, 0.5) {
		t.Errorf("pac_mean=%v, want 0.5", report.PaCMean)
	}
}

func TestComputePropagatesSourceErrors(t *testing.T) {
	agg := NewAggregator(&fakeImpressions{err: errors.New("db gone")}, &fakeEngagements{}, logger.NewNop())
	if _, err := agg.Compute(context.Background(), Params{Start: 0, End: 1, K: 1, WindowHours: 1, ActionTypes: []string{"click"}}); err == nil {
		t.Error("impression source error should propagate")
	}

	impressions := &fakeImpressions{rows: []*types.Impression{
		mustImpression(t, "r1", 1000, 1, []int64{1}),
	}}
	agg = NewAggregator(impressions, &fakeEngagements{err: errors.New("db gone")}, logger.NewNop())
	if _, err := agg.Compute(context.Background(), Params{Start: 0, End: 2000, K: 1, WindowHours: 1, ActionTypes: []string{"click"}}); err == nil {
		t.Error("engagement source error should propagate")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	p, err := Params{Start: -1, End: -1}.Normalize(now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.End != now.Unix() {
		t.Errorf("end=%d, want now", p.End)
	}
	if p.Start != p.End-int64(DefaultRangeDays*24)*3600 {
		t.Errorf("start=%d, want trailing %d days", p.Start, DefaultRangeDays)
	}
	if p.K != DefaultK || p.WindowHours != DefaultWindowHours {
		t.Errorf("defaults k=%d window=%d", p.K, p.WindowHours)
	}
	if len(p.ActionTypes) != 1 || p.ActionTypes[0] != DefaultActionType {
		t.Errorf("action types=%v, want [%s]", p.ActionTypes, DefaultActionType)
	}
}

func TestNormalizeHonorsEpochRange(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	p, err := Params{Start: 0, End: 1000}.Normalize(now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Start != 0 || p.End != 1000 {
		t.Errorf("explicit epoch range rewritten to [%d,%d], want [0,1000]", p.Start, p.End)
	}

	// End supplied, start not: default is the trailing range before End.
	p, err = Params{Start: -1, End: 1_000_000_000}.Normalize(now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.End != 1_000_000_000 || p.Start != p.End-int64(DefaultRangeDays*24)*3600 {
		t.Errorf("range defaulted to [%d,%d]", p.Start, p.End)
	}
}

func TestNormalizeRejectsBadParams(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cases := []struct {
		name string
		p    Params
	}{
		{"start_after_end", Params{Start: 2000, End: 1000}},
		{"k_too_large", Params{K: 101}},
		{"k_negative", Params{K: -1}},
		{"window_too_large", Params{WindowHours: 169}},
		{"window_negative", Params{WindowHours: -1}},
		{"explicit_empty_action_types", Params{ActionTypes: []string{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.p.Normalize(now); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestComputeForwardsFilters(t *testing.T) {
	impressions := &fakeImpressions{}
	agg := NewAggregator(impressions, &fakeEngagements{}, logger.NewNop())
	_, err := agg.Compute(context.Background(), Params{
		Start: 10, End: 20, K: 5, WindowHours: 2,
		Platform: "mobile", Engine: "learned", ActionTypes: []string{"click", "like"},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if impressions.gotStart != 10 || impressions.gotEnd != 20 {
		t.Errorf("range forwarded as (%d,%d)", impressions.gotStart, impressions.gotEnd)
	}
	if impressions.gotPlatform != "mobile" || impressions.gotEngine != "learned" {
		t.Errorf("filters forwarded as (%q,%q)", impressions.gotPlatform, impressions.gotEngine)
	}
}
