package types

import (
	"strings"
	"time"
)

// Item genres are stored as a comma separated list, matching the seeded
// dataset layout.
type Item struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	ReleaseDate string    `gorm:"column:release_date" json:"release_date,omitempty"`
	IMDBUrl     string    `gorm:"column:imdb_url" json:"imdb_url,omitempty"`
	Genres      string    `gorm:"column:genres" json:"genres"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Item) TableName() string { return "items" }

// GenreList splits the stored CSV into trimmed, non-empty labels.
func (i Item) GenreList() []string {
	return SplitGenres(i.Genres)
}

func SplitGenres(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			out = append(out, g)
		}
	}
	return out
}
