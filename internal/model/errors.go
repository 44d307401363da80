package model

import "errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = errors.New("invalid move, not legal")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("no move to undo")
	ErrAlreadyQueued = errors.New("player already in queue")
)
