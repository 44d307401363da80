package model

import (
	"fmt"

	"github.com/benbeisheim/chessengine-backend/internal/engine"
)

// WSMove is a move request from the client in square notation, e.g. {"from":"e2","to":"e4"}.
type WSMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (m WSMove) squares() (engine.Square, engine.Square, error) {
	from, err := engine.ParseSquare(m.From)
	if err != nil {
		return engine.Square{}, engine.Square{}, fmt.Errorf("from: %w", err)
	}
	to, err := engine.ParseSquare(m.To)
	if err != nil {
		return engine.Square{}, engine.Square{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}

type SimpleMove struct {
	From engine.Square `json:"from"`
	To   engine.Square `json:"to"`
}

type Ply struct {
	Piece         engine.Piece  `json:"piece"`
	From          engine.Square `json:"from"`
	To            engine.Square `json:"to"`
	CapturedPiece engine.Piece  `json:"capturedPiece"`
	Notation      string        `json:"notation"`
}

func newPly(m engine.Move) Ply {
	return Ply{
		Piece:         m.PieceMoved,
		From:          m.From,
		To:            m.To,
		CapturedPiece: m.PieceCaptured,
		Notation:      m.Notation(),
	}
}
