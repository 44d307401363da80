package engine

import "fmt"

type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) letter() byte {
	switch c {
	case White:
		return 'w'
	case Black:
		return 'b'
	}
	return '-'
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "":
		*c = NoColor
	default:
		return fmt.Errorf("color %q: %w", text, ErrInvalidPiece)
	}
	return nil
}

type PieceType uint8

const (
	Empty PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) letter() byte {
	switch p {
	case Pawn:
		return 'p'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '-'
}

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "empty"
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == Empty
}

// String renders the two-character form used by the renderer: "wN", "bp", "--".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	return string([]byte{p.Color.letter(), p.Type.letter()})
}

func (p Piece) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	piece, err := ParsePiece(string(text))
	if err != nil {
		return err
	}
	*p = piece
	return nil
}

// ParsePiece is the inverse of Piece.String.
func ParsePiece(s string) (Piece, error) {
	if s == "--" {
		return NoPiece, nil
	}
	if len(s) != 2 {
		return NoPiece, fmt.Errorf("piece %q: %w", s, ErrInvalidPiece)
	}
	var color Color
	switch s[0] {
	case 'w':
		color = White
	case 'b':
		color = Black
	default:
		return NoPiece, fmt.Errorf("piece %q: %w", s, ErrInvalidPiece)
	}
	for t := Pawn; t <= King; t++ {
		if t.letter() == s[1] {
			return Piece{Type: t, Color: color}, nil
		}
	}
	return NoPiece, fmt.Errorf("piece %q: %w", s, ErrInvalidPiece)
}
