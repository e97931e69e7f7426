package types

import (
	"time"
)

// Engagement links a user action (click/like/watch) back to the impression
// that served the item. Validation that the impression exists and belongs to
// the acting user happens at write time in the service layer; repeated
// identical events are all stored.
type Engagement struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecsetID   string    `gorm:"column:recset_id;not null;index" json:"recset_id"`
	UserID     int64     `gorm:"column:user_id;not null;index:idx_engagements_user_ts,priority:1" json:"user_id"`
	ItemID     int64     `gorm:"column:item_id;not null" json:"item_id"`
	ActionType string    `gorm:"column:action_type;not null" json:"action_type"`
	Platform   string    `gorm:"column:platform;not null;default:'web'" json:"platform"`
	TS         int64     `gorm:"column:ts;not null;index:idx_engagements_user_ts,priority:2" json:"ts"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (Engagement) TableName() string { return "engagements" }
