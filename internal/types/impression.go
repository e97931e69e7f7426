package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Impression is written once per served recommendation list and never
// mutated. ItemIDs holds the served item ids verbatim, in rank order, as a
// JSON array; the list is a copy, not a reference into the catalog.
type Impression struct {
	RecsetID  string         `gorm:"column:recset_id;primaryKey" json:"recset_id"`
	UserID    int64          `gorm:"column:user_id;not null;index:idx_rec_impressions_user_ts,priority:1" json:"user_id"`
	Platform  string         `gorm:"column:platform;not null;default:'web'" json:"platform"`
	TS        int64          `gorm:"column:ts;not null;index:idx_rec_impressions_user_ts,priority:2;index:idx_rec_impressions_ts" json:"ts"`
	K         int            `gorm:"column:k;not null" json:"k"`
	Engine    string         `gorm:"column:engine;not null" json:"engine"`
	ItemIDs   datatypes.JSON `gorm:"column:item_ids_json;not null" json:"item_ids"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Impression) TableName() string { return "rec_impressions" }

// ItemIDList decodes the stored ranked list. A payload that is not a JSON
// array of integers yields an empty list rather than an error, so one bad row
// cannot abort a metric aggregation.
func (im Impression) ItemIDList() []int64 {
	var ids []int64
	if err := json.Unmarshal(im.ItemIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// EncodeItemIDs marshals a ranked id list for storage.
func EncodeItemIDs(ids []int64) (datatypes.JSON, error) {
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
