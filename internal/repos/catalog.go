package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/recommender"
	"github.com/webmediarec/backend/internal/types"
)

// CatalogRepo serves the read-only aggregate queries the scorers need. It
// satisfies recommender.Catalog; every method is a bounded, point-in-time
// read with no transaction requirement.
type CatalogRepo interface {
	SeenItemIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
	TopCandidates(ctx context.Context, limit int) ([]recommender.Candidate, error)
	PositiveRatedGenres(ctx context.Context, userID int64) ([]recommender.RatedGenres, error)
	InteractionCount(ctx context.Context, userID int64) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) SeenItemIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&types.Interaction{}).
		Distinct("item_id").
		Where("user_id = ?", userID).
		Pluck("item_id", &ids).Error; err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

type candidateRow struct {
	ItemID           int64
	Title            string
	Genres           string
	InteractionCount int64
	AvgRating        *float64
}

func (r *catalogRepo) TopCandidates(ctx context.Context, limit int) ([]recommender.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	var rows []candidateRow
	if err := r.db.WithContext(ctx).
		Table("items AS i").
		Select("i.id AS item_id, i.title AS title, i.genres AS genres, " +
			"COUNT(x.id) AS interaction_count, " +
			"AVG(CASE WHEN x.rating IS NOT NULL THEN x.rating END) AS avg_rating").
		Joins("LEFT JOIN interactions x ON x.item_id = i.id").
		Group("i.id, i.title, i.genres").
		Order("interaction_count DESC, i.id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]recommender.Candidate, 0, len(rows))
	for _, row := range rows {
		avg := 0.0
		if row.AvgRating != nil {
			avg = *row.AvgRating
		}
		out = append(out, recommender.Candidate{
			ItemID:           row.ItemID,
			Title:            row.Title,
			Genres:           types.SplitGenres(row.Genres),
			InteractionCount: row.InteractionCount,
			AvgRating:        avg,
		})
	}
	return out, nil
}

type ratedGenresRow struct {
	Genres string
	Rating int
}

func (r *catalogRepo) PositiveRatedGenres(ctx context.Context, userID int64) ([]recommender.RatedGenres, error) {
	var rows []ratedGenresRow
	if err := r.db.WithContext(ctx).
		Table("interactions AS x").
		Select("i.genres AS genres, x.rating AS rating").
		Joins("JOIN items i ON i.id = x.item_id").
		Where("x.user_id = ? AND x.rating IS NOT NULL AND x.rating >= ?", userID, 4).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recommender.RatedGenres, 0, len(rows))
	for _, row := range rows {
		out = append(out, recommender.RatedGenres{
			Genres: types.SplitGenres(row.Genres),
			Rating: row.Rating,
		})
	}
	return out, nil
}

func (r *catalogRepo) InteractionCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&types.Interaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *catalogRepo) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
