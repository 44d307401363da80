package model

import "github.com/benbeisheim/chessengine-backend/internal/engine"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string       `json:"name"`
	Color    engine.Color `json:"color"`
	TimeLeft int          `json:"timeLeft"`
}

// MatchFoundEvent is sent to a queued player once they are paired.
type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}

const (
	MatchStatusIdle    = "idle"
	MatchStatusQueued  = "queued"
	MatchStatusMatched = "matched"
)

// MatchStatus answers a player polling the matchmaking queue.
type MatchStatus struct {
	Status string       `json:"status"`
	GameID string       `json:"gameId,omitempty"`
	Color  engine.Color `json:"color,omitempty"`
}
