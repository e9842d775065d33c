package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// SessionRow is the persisted record of one room's session
type SessionRow struct {
	ID             string       `db:"id" json:"id"`
	Variant        string       `db:"variant" json:"variant"`
	PlayerName     string       `db:"player_name" json:"player_name"`
	State          string       `db:"state" json:"state"`
	Score          int          `db:"score" json:"score"`
	TriesRemaining int          `db:"tries_remaining" json:"tries_remaining"`
	MaxTries       int          `db:"max_tries" json:"max_tries"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
	FinishedAt     sql.NullTime `db:"finished_at" json:"finished_at,omitempty"`
}

// ShotAttemptRow is one resolved attempt
type ShotAttemptRow struct {
	ID            int       `db:"id" json:"id"`
	SessionID     string    `db:"session_id" json:"session_id"`
	AttemptNumber int       `db:"attempt_number" json:"attempt_number"`
	VelocityX     float64   `db:"velocity_x" json:"velocity_x"`
	VelocityY     float64   `db:"velocity_y" json:"velocity_y"`
	Scored        bool      `db:"scored" json:"scored"`
	MissReason    string    `db:"miss_reason" json:"miss_reason,omitempty"`
	FlightTime    float64   `db:"flight_time" json:"flight_time"`
	FinalX        float64   `db:"final_x" json:"final_x"`
	FinalY        float64   `db:"final_y" json:"final_y"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is a finished session ranked by score
type LeaderboardEntry struct {
	SessionID  string    `db:"id" json:"session_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Variant    string    `db:"variant" json:"variant"`
	Score      int       `db:"score" json:"score"`
	MaxTries   int       `db:"max_tries" json:"max_tries"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// AdminAccount represents an operator allowed to manage rooms
type AdminAccount struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TokenHash string    `db:"token_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminAudit records an admin action
type AdminAudit struct {
	ID        int             `db:"id" json:"id"`
	AdminName string          `db:"admin_name" json:"admin_name"`
	IP        string          `db:"ip" json:"ip"`
	Route     string          `db:"route" json:"route"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details"`
	Success   bool            `db:"success" json:"success"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
