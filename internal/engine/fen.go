package engine

import (
	"fmt"
	"strings"
)

// InitialFEN is the starting position. The castling field is written as "-"
// because castling is never generated.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

var fenLetters = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// LoadFEN builds a GameState from the placement and side-to-move fields of a
// FEN string. Castling and en passant fields are accepted and ignored.
func LoadFEN(fen string) (*GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%q: need placement and side to move: %w", fen, ErrInvalidFEN)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%q: expected 8 ranks, got %d: %w", fen, len(ranks), ErrInvalidFEN)
	}

	gs := &GameState{moveLog: make([]Move, 0)}
	kings := map[Color]int{}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			color := White
			lower := ch
			if ch >= 'a' && ch <= 'z' {
				color = Black
			} else {
				lower = ch + ('a' - 'A')
			}
			t, ok := fenLetters[lower]
			if !ok {
				return nil, fmt.Errorf("%q: unknown piece %q: %w", fen, ch, ErrInvalidFEN)
			}
			if col > 7 {
				return nil, fmt.Errorf("%q: rank %d overflows: %w", fen, 8-row, ErrInvalidFEN)
			}
			sq := Square{Row: row, Col: col}
			gs.board.Set(sq, Piece{Type: t, Color: color})
			if t == King {
				kings[color]++
				gs.setKing(color, sq)
			}
			col++
		}
		if col != 8 {
			return nil, fmt.Errorf("%q: rank %d has %d files: %w", fen, 8-row, col, ErrInvalidFEN)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%q: need exactly one king per side: %w", fen, ErrInvalidFEN)
	}

	switch fields[1] {
	case "w":
		gs.sideToMove = White
	case "b":
		gs.sideToMove = Black
	default:
		return nil, fmt.Errorf("%q: bad side to move %q: %w", fen, fields[1], ErrInvalidFEN)
	}
	return gs, nil
}

// FEN writes the position. Castling and en passant are always "-".
func (gs *GameState) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			p := gs.board[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := "pnbrqk"[p.Type-Pawn]
			if p.Color == White {
				letter -= 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	side := "w"
	if gs.sideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s - - 0 %d", side, 1+len(gs.moveLog)/2)
	return sb.String()
}
