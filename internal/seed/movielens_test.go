package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadGenres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u.genre")
	content := "unknown|0\nAction|1\nAdventure|2\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write genre file: %v", err)
	}

	genres, err := LoadGenres(path)
	if err != nil {
		t.Fatalf("LoadGenres: %v", err)
	}
	want := []string{"unknown", "Action", "Adventure"}
	if len(genres) != len(want) {
		t.Fatalf("got %d genres, want %d: %v", len(genres), len(want), genres)
	}
	for i, g := range want {
		if genres[i] != g {
			t.Errorf("genres[%d]=%q, want %q", i, genres[i], g)
		}
	}
}

func TestParseUsers(t *testing.T) {
	input := "1|24|M|technician|85711\n2|53|F|other|94043\nbadline\n"
	users, err := ParseUsers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	u := users[0]
	if u.ID != 1 || u.Age != 24 || u.Gender != "M" || u.Occupation != "technician" || u.ZipCode != "85711" {
		t.Errorf("first user parsed as %+v", u)
	}
	if !u.Consent {
		t.Errorf("seeded users should carry consent")
	}
}

func TestParseItems(t *testing.T) {
	genres := []string{"unknown", "Action", "Adventure", "Comedy"}
	input := strings.Join([]string{
		"1|Toy Story (1995)|01-Jan-1995||http://imdb/toystory|0|0|1|1",
		"2|GoldenEye (1995)|01-Jan-1995||http://imdb/goldeneye|1|0|0|0",
		"garbage",
	}, "\n")

	items, err := ParseItems(strings.NewReader(input), genres)
	if err != nil {
		t.Fatalf("ParseItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "Toy Story (1995)" {
		t.Errorf("title=%q", items[0].Title)
	}
	if items[0].Genres != "Adventure,Comedy" {
		t.Errorf("genre flags decoded to %q, want Adventure,Comedy", items[0].Genres)
	}
	// Only the "unknown" flag set: no genre labels survive.
	if items[1].Genres != "" {
		t.Errorf("unknown-only item got genres %q", items[1].Genres)
	}
	if items[0].IMDBUrl != "http://imdb/toystory" {
		t.Errorf("imdb url=%q", items[0].IMDBUrl)
	}
}

func TestParseInteractions(t *testing.T) {
	input := "196\t242\t3\t881250949\n186\t302\t5\t891717742\nshort line\n"
	interactions, err := ParseInteractions(strings.NewReader(input), "")
	if err != nil {
		t.Fatalf("ParseInteractions: %v", err)
	}
	if len(interactions) != 2 {
		t.Fatalf("got %d interactions, want 2", len(interactions))
	}
	x := interactions[0]
	if x.UserID != 196 || x.ItemID != 242 || x.TS != 881250949 {
		t.Errorf("first interaction parsed as %+v", x)
	}
	if x.Rating == nil || *x.Rating != 3 {
		t.Errorf("rating pointer=%v, want 3", x.Rating)
	}
	if x.Weight != 3.0 {
		t.Errorf("weight=%v, want rating value", x.Weight)
	}
	if x.EventType != "rating" {
		t.Errorf("event type=%q", x.EventType)
	}
	if x.Platform != "web" {
		t.Errorf("empty platform should default to web, got %q", x.Platform)
	}

	if interactions[1].Rating == nil || *interactions[1].Rating != 5 {
		t.Errorf("second rating=%v", interactions[1].Rating)
	}
	if interactions[0].Rating == interactions[1].Rating {
		t.Error("rating pointers must not alias across rows")
	}
}

func TestLatin1ToUTF8(t *testing.T) {
	// 0xE9 is é in latin-1.
	got := latin1ToUTF8([]byte{'C', 'a', 'f', 0xE9})
	if got != "Café" {
		t.Errorf("latin1ToUTF8=%q, want Café", got)
	}
	if got := latin1ToUTF8([]byte("plain ascii")); got != "plain ascii" {
		t.Errorf("ascii passthrough broken: %q", got)
	}
}
