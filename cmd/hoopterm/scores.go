package main

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// localScore is one finished game on this machine.
type localScore struct {
	ID       int64  `db:"id"`
	Player   string `db:"player"`
	Variant  string `db:"variant"`
	Score    int    `db:"score"`
	MaxTries int    `db:"max_tries"`
	PlayedAt int64  `db:"played_at"`
}

func (s localScore) When() time.Time {
	return time.Unix(s.PlayedAt, 0)
}

// scoreBook keeps finished games in a local sqlite file.
type scoreBook struct {
	db *sqlx.DB
}

func openScoreBook(path string) (*scoreBook, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scores file: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player TEXT NOT NULL,
		variant TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_tries INTEGER NOT NULL,
		played_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create scores table: %w", err)
	}
	return &scoreBook{db: db}, nil
}

func (b *scoreBook) record(player, variant string, score, maxTries int, at time.Time) error {
	_, err := b.db.Exec(`
		INSERT INTO scores (player, variant, score, max_tries, played_at)
		VALUES (?, ?, ?, ?, ?)
	`, player, variant, score, maxTries, at.Unix())
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// top returns the best games of a variant, earliest first on ties.
func (b *scoreBook) top(variant string, n int) ([]localScore, error) {
	if n <= 0 {
		n = 5
	}
	var rows []localScore
	err := b.db.Select(&rows, `
		SELECT id, player, variant, score, max_tries, played_at
		FROM scores
		WHERE variant = ?
		ORDER BY score DESC, played_at ASC, id ASC
		LIMIT ?
	`, variant, n)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	return rows, nil
}

func (b *scoreBook) close() error {
	return b.db.Close()
}
