package types

import (
	"time"
)

// Interaction rows are append-only. Rating is nullable: implicit events carry
// no rating. TS is integer seconds since epoch (dataset timestamps).
type Interaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	ItemID    int64     `gorm:"column:item_id;not null;index" json:"item_id"`
	EventType string    `gorm:"column:event_type;not null" json:"event_type"`
	Rating    *int      `gorm:"column:rating" json:"rating,omitempty"`
	Weight    float64   `gorm:"column:weight" json:"weight"`
	Platform  string    `gorm:"column:platform;not null;default:'web'" json:"platform"`
	TS        int64     `gorm:"column:ts;index" json:"ts"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Interaction) TableName() string { return "interactions" }
