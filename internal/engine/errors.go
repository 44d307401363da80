package engine

import "errors"

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidPiece  = errors.New("invalid piece")
	ErrInvalidFEN    = errors.New("invalid FEN")
)
