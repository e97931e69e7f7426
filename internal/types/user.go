package types

import (
	"time"
)

// User ids are dense 1-based integers from the seeded dataset. Demographic
// attributes are opaque to scoring.
type User struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Age        int       `gorm:"column:age" json:"age"`
	Gender     string    `gorm:"column:gender" json:"gender"`
	Occupation string    `gorm:"column:occupation" json:"occupation"`
	ZipCode    string    `gorm:"column:zip_code" json:"zip_code"`
	Consent    bool      `gorm:"column:consent;not null;default:true" json:"consent"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string { return "users" }
