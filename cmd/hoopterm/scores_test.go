package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestScoreBookTop(t *testing.T) {
	book, err := openScoreBook(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("openScoreBook: %v", err)
	}
	defer book.close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	games := []struct {
		player  string
		variant string
		score   int
		at      time.Time
	}{
		{"ann", "slingshot", 1, base},
		{"bob", "slingshot", 3, base.Add(time.Minute)},
		{"cat", "slingshot", 3, base.Add(2 * time.Minute)},
		{"dan", "arcade", 3, base},
	}
	for _, g := range games {
		if err := book.record(g.player, g.variant, g.score, 3, g.at); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	top, err := book.top("slingshot", 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].Player != "bob" || top[1].Player != "cat" {
		t.Errorf("expected bob then cat, got %s then %s", top[0].Player, top[1].Player)
	}
	if !top[0].When().Equal(base.Add(time.Minute)) {
		t.Errorf("unexpected played_at %v", top[0].When())
	}

	arcade, err := book.top("arcade", 0)
	if err != nil {
		t.Fatalf("top arcade: %v", err)
	}
	if len(arcade) != 1 || arcade[0].Player != "dan" {
		t.Errorf("unexpected arcade scores %+v", arcade)
	}
}

func TestScoreBookReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	book, err := openScoreBook(path)
	if err != nil {
		t.Fatalf("openScoreBook: %v", err)
	}
	if err := book.record("ann", "arcade", 2, 3, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}
	book.close()

	book, err = openScoreBook(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer book.close()
	top, err := book.top("arcade", 5)
	if err != nil || len(top) != 1 {
		t.Errorf("expected the saved game after reopening, got %v (%v)", top, err)
	}
}
