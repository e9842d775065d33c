package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/hoopshot/internal/models"
)

const maxLeaderboardLimit = 100

// ClampLimit keeps a requested leaderboard size within [1, 100], defaulting to 10.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > maxLeaderboardLimit:
		return maxLeaderboardLimit
	}
	return limit
}

// Leaderboard returns the best finished sessions, optionally for one variant.
// Ties go to whoever finished first.
func Leaderboard(ctx context.Context, db *sqlx.DB, variant string, limit int) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	query := `
		SELECT id, player_name, variant, score, max_tries, finished_at
		FROM sessions
		WHERE finished_at IS NOT NULL AND ($1::text = '' OR variant = $1::text)
		ORDER BY score DESC, finished_at ASC
		LIMIT $2
	`
	if err := db.SelectContext(ctx, &entries, query, variant, ClampLimit(limit)); err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	return entries, nil
}

// SessionAttempts lists the recorded attempts of one session in order.
func SessionAttempts(ctx context.Context, db *sqlx.DB, sessionID string) ([]models.ShotAttemptRow, error) {
	rows := []models.ShotAttemptRow{}
	query := `
		SELECT id, session_id, attempt_number, velocity_x, velocity_y, scored, miss_reason, flight_time, final_x, final_y, created_at
		FROM shot_attempts
		WHERE session_id = $1
		ORDER BY attempt_number
	`
	if err := db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return rows, nil
}

// RecentSessions lists recorded sessions, newest first, optionally only those
// in one state.
func RecentSessions(ctx context.Context, db *sqlx.DB, state string, limit, offset int) ([]models.SessionRow, error) {
	rows := []models.SessionRow{}
	query := `
		SELECT id, variant, player_name, state, score, tries_remaining, max_tries, created_at, updated_at, finished_at
		FROM sessions
		WHERE ($1::text = '' OR state = $1::text)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := db.SelectContext(ctx, &rows, query, state, ClampLimit(limit), offset); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return rows, nil
}
