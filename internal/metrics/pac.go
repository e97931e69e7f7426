// Package metrics computes proportion-at-click (PaC): for a filtered set of
// impressions, the fraction of each impression's top-k items that the user
// engaged with inside a bounded window after the impression.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/webmediarec/backend/internal/logger"
	apperrors "github.com/webmediarec/backend/internal/pkg/errors"
	"github.com/webmediarec/backend/internal/types"
)

const (
	DefaultK           = 10
	DefaultWindowHours = 24
	DefaultRangeDays   = 7
	DefaultActionType  = "click"

	minK           = 1
	maxK           = 100
	minWindowHours = 1
	maxWindowHours = 168
)

// ImpressionSource lists impressions inside a time range, time-ordered.
// Empty platform/engine mean no filter.
type ImpressionSource interface {
	ListInRange(ctx context.Context, start, end int64, platform, engine string) ([]*types.Impression, error)
}

// EngagementSource returns the distinct item ids engaged against one
// impression, restricted to action types and to the given window.
type EngagementSource interface {
	DistinctEngagedItemIDs(ctx context.Context, recsetID string, actionTypes []string, windowStart, windowEnd int64) ([]int64, error)
}

// Params is the filter set for one aggregation. Negative Start/End mean "not
// supplied" and default to the trailing DefaultRangeDays ending now; zero is a
// valid epoch timestamp.
type Params struct {
	Start       int64    `json:"start_ts"`
	End         int64    `json:"end_ts"`
	K           int      `json:"k"`
	WindowHours int      `json:"window_hours"`
	Platform    string   `json:"platform,omitempty"`
	Engine      string   `json:"engine,omitempty"`
	ActionTypes []string `json:"action_types"`
}

// Normalize applies defaults and validates bounds. now supplies the clock so
// tests can pin the default range.
func (p Params) Normalize(now time.Time) (Params, error) {
	if p.End < 0 {
		p.End = now.Unix()
	}
	if p.Start < 0 {
		p.Start = p.End - int64(DefaultRangeDays*24)*3600
	}
	if p.Start > p.End {
		return p, fmt.Errorf("%w: start_ts %d after end_ts %d", apperrors.ErrInvalidInput, p.Start, p.End)
	}
	if p.K == 0 {
		p.K = DefaultK
	}
	if p.K < minK || p.K > maxK {
		return p, fmt.Errorf("%w: k %d outside [%d,%d]", apperrors.ErrInvalidInput, p.K, minK, maxK)
	}
	if p.WindowHours == 0 {
		p.WindowHours = DefaultWindowHours
	}
	if p.WindowHours < minWindowHours || p.WindowHours > maxWindowHours {
		return p, fmt.Errorf("%w: window_hours %d outside [%d,%d]", apperrors.ErrInvalidInput, p.WindowHours, minWindowHours, maxWindowHours)
	}
	if p.ActionTypes == nil {
		p.ActionTypes = []string{DefaultActionType}
	}
	if len(p.ActionTypes) == 0 {
		return p, fmt.Errorf("%w: empty action type set", apperrors.ErrInvalidInput)
	}
	return p, nil
}

// Report is the aggregation output. PaCMean is the macro average of
// per-impression hit ratios; PaCMicro is the global Σhits/Σk. The two are
// generally different. An empty impression set yields a zero-valued report.
type Report struct {
	Params

	PaCMean          float64 `json:"pac_mean"`
	PaCMicro         float64 `json:"pac_micro"`
	Impressions      int     `json:"impressions"`
	TotalHits        int64   `json:"total_hits"`
	TotalRecommended int64   `json:"total_recommended"`
}

type Aggregator struct {
	impressions ImpressionSource
	engagements EngagementSource
	log         *logger.Logger
}

func NewAggregator(impressions ImpressionSource, engagements EngagementSource, baseLog *logger.Logger) *Aggregator {
	return &Aggregator{
		impressions: impressions,
		engagements: engagements,
		log:         baseLog.With("component", "PaCAggregator"),
	}
}

// Compute runs one aggregation. Params must already be normalized.
//
// Per impression: truncate the stored ranked list to the first K entries
// (skip if empty; a malformed stored payload decodes to an empty list and is
// skipped the same way), collect the distinct items engaged inside
// [ts, ts+window], count hits, and accumulate both averaging statistics.
func (a *Aggregator) Compute(ctx context.Context, p Params) (*Report, error) {
	impressions, err := a.impressions.ListInRange(ctx, p.Start, p.End, p.Platform, p.Engine)
	if err != nil {
		return nil, err
	}

	windowSeconds := int64(p.WindowHours) * 3600

	var (
		considered int
		ratioSum   float64
		totalHits  int64
		totalRecs  int64
	)
	for _, im := range impressions {
		topK := im.ItemIDList()
		if len(topK) > p.K {
			topK = topK[:p.K]
		}
		if len(topK) == 0 {
			continue
		}

		windowStart := im.TS
		windowEnd := im.TS + windowSeconds
		engagedIDs, err := a.engagements.DistinctEngagedItemIDs(ctx, im.RecsetID, p.ActionTypes, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		engaged := make(map[int64]struct{}, len(engagedIDs))
		for _, id := range engagedIDs {
			engaged[id] = struct{}{}
		}

		hits := 0
		for _, id := range topK {
			if _, ok := engaged[id]; ok {
				hits++
			}
		}

		considered++
		ratioSum += float64(hits) / float64(len(topK))
		totalHits += int64(hits)
		totalRecs += int64(len(topK))
	}

	report := &Report{
		Params:           p,
		Impressions:      considered,
		TotalHits:        totalHits,
		TotalRecommended: totalRecs,
	}
	if considered > 0 {
		report.PaCMean = ratioSum / float64(considered)
	}
	if totalRecs > 0 {
		report.PaCMicro = float64(totalHits) / float64(totalRecs)
	}
	return report, nil
}
