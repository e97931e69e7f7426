// Package seed downloads and loads the MovieLens 100k dataset into the
// catalog store: users, items (with genre labels) and rating interactions.
package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/repos"
	"github.com/webmediarec/backend/internal/types"
)

type Seeder struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	itemRepo        repos.ItemRepo
	interactionRepo repos.InteractionRepo
}

func NewSeeder(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	itemRepo repos.ItemRepo,
	interactionRepo repos.InteractionRepo,
) *Seeder {
	return &Seeder{
		db:              db,
		log:             baseLog.With("component", "Seeder"),
		userRepo:        userRepo,
		itemRepo:        itemRepo,
		interactionRepo: interactionRepo,
	}
}

// Seed loads u.genre, u.user, u.item and u.data from datasetDir. Users and
// items have no dependency on each other and load concurrently; interactions
// load after both so the foreign keys resolve.
func (sd *Seeder) Seed(ctx context.Context, datasetDir, platform string, reset bool) error {
	paths := map[string]string{
		"genre": filepath.Join(datasetDir, "u.genre"),
		"user":  filepath.Join(datasetDir, "u.user"),
		"item":  filepath.Join(datasetDir, "u.item"),
		"data":  filepath.Join(datasetDir, "u.data"),
	}
	for name, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("missing dataset file u.%s at %s (run the fetch step first)", name, p)
		}
	}

	if reset {
		if err := sd.reset(ctx); err != nil {
			return err
		}
	}

	genres, err := LoadGenres(paths["genre"])
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := parseFile(paths["user"], func(r io.Reader) ([]*types.User, error) { return ParseUsers(r) })
		if err != nil {
			return err
		}
		if err := sd.userRepo.Upsert(gctx, nil, users); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		sd.log.Info("seeded users", "count", len(users))
		return nil
	})
	g.Go(func() error {
		items, err := parseFile(paths["item"], func(r io.Reader) ([]*types.Item, error) { return ParseItems(r, genres) })
		if err != nil {
			return err
		}
		if err := sd.itemRepo.Upsert(gctx, nil, items); err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
		sd.log.Info("seeded items", "count", len(items))
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	interactions, err := parseFile(paths["data"], func(r io.Reader) ([]*types.Interaction, error) {
		return ParseInteractions(r, platform)
	})
	if err != nil {
		return err
	}
	if err := sd.interactionRepo.Create(ctx, nil, interactions); err != nil {
		return fmt.Errorf("seed interactions: %w", err)
	}
	sd.log.Info("seeded interactions", "count", len(interactions))
	return nil
}

// reset clears all tables, children first.
func (sd *Seeder) reset(ctx context.Context) error {
	for _, table := range []string{"engagements", "rec_impressions", "interactions", "items", "users"} {
		if err := sd.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	sd.log.Info("tables cleared")
	return nil
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// LoadGenres returns genre names indexed by genre id, so the u.item flag
// columns line up.
func LoadGenres(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idToName := map[int]string{}
	maxID := -1
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(latin1ToUTF8(scanner.Bytes()))
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			continue
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		idToName[id] = parts[0]
		if id > maxID {
			maxID = id
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	genres := make([]string, maxID+1)
	for i := 0; i <= maxID; i++ {
		genres[i] = idToName[i]
	}
	return genres, nil
}

// ParseUsers reads u.user: id|age|gender|occupation|zip.
func ParseUsers(r io.Reader) ([]*types.User, error) {
	var users []*types.User
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(latin1ToUTF8(scanner.Bytes())), "|")
		if len(parts) < 5 {
			continue
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		age, _ := strconv.Atoi(parts[1])
		users = append(users, &types.User{
			ID:         id,
			Age:        age,
			Gender:     parts[2],
			Occupation: parts[3],
			ZipCode:    parts[4],
			Consent:    true,
		})
	}
	return users, scanner.Err()
}

// ParseItems reads u.item: id|title|release_date|video_date|imdb_url|flag...
// Flag columns map positionally onto the genre list; the "unknown" label is
// dropped.
func ParseItems(r io.Reader, genres []string) ([]*types.Item, error) {
	var items []*types.Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(latin1ToUTF8(scanner.Bytes())), "|")
		if len(parts) < 5 {
			continue
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		var g []string
		for i, flag := range parts[5:] {
			if i >= len(genres) {
				break
			}
			if flag == "1" && !strings.EqualFold(genres[i], "unknown") {
				g = append(g, genres[i])
			}
		}
		items = append(items, &types.Item{
			ID:          id,
			Title:       parts[1],
			ReleaseDate: parts[2],
			IMDBUrl:     parts[4],
			Genres:      strings.Join(g, ","),
		})
	}
	return items, scanner.Err()
}

// ParseInteractions reads u.data: user item rating ts, whitespace separated.
// Every row becomes a "rating" event with weight equal to the rating.
func ParseInteractions(r io.Reader, platform string) ([]*types.Interaction, error) {
	if platform == "" {
		platform = "web"
	}
	var interactions []*types.Interaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			continue
		}
		userID, err1 := strconv.ParseInt(parts[0], 10, 64)
		itemID, err2 := strconv.ParseInt(parts[1], 10, 64)
		rating, err3 := strconv.Atoi(parts[2])
		ts, err4 := strconv.ParseInt(parts[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		ratingCopy := rating
		interactions = append(interactions, &types.Interaction{
			UserID:    userID,
			ItemID:    itemID,
			EventType: "rating",
			Rating:    &ratingCopy,
			Weight:    float64(rating),
			Platform:  platform,
			TS:        ts,
		})
	}
	return interactions, scanner.Err()
}

// latin1ToUTF8 converts the dataset's latin-1 bytes; every latin-1 byte maps
// directly onto the same unicode code point.
func latin1ToUTF8(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
