package model

import "github.com/benbeisheim/chessengine-backend/internal/engine"

// Targets splits the destinations of the piece on one square for display.
// Blocked holds squares the piece could reach by its movement rule that are
// ruled out by a pin or a check.
type Targets struct {
	From     engine.Square   `json:"from"`
	Moves    []engine.Square `json:"moves"`
	Captures []engine.Square `json:"captures"`
	Blocked  []engine.Square `json:"blocked"`
}

func newTargets(from engine.Square, legal []engine.Move, pseudo []engine.Square) Targets {
	t := Targets{
		From:     from,
		Moves:    []engine.Square{},
		Captures: []engine.Square{},
		Blocked:  []engine.Square{},
	}
	reachable := make(map[engine.Square]bool)
	for _, m := range legal {
		if m.From != from {
			continue
		}
		reachable[m.To] = true
		if m.IsCapture() {
			t.Captures = append(t.Captures, m.To)
		} else {
			t.Moves = append(t.Moves, m.To)
		}
	}
	for _, sq := range pseudo {
		if !reachable[sq] {
			t.Blocked = append(t.Blocked, sq)
		}
	}
	return t
}
