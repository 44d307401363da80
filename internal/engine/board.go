package engine

import "fmt"

// Square is a (row, col) pair. Row 0 is Black's back rank, row 7 White's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) step(d Direction, n int) Square {
	return Square{Row: s.Row + d.DRow*n, Col: s.Col + d.DCol*n}
}

func (s Square) File() string {
	return fmt.Sprintf("%c", 'a'+s.Col)
}

func (s Square) Rank() string {
	return fmt.Sprintf("%d", 8-s.Row)
}

// String returns the square in board notation, row 7 col 0 being "a1".
func (s Square) String() string {
	return s.File() + s.Rank()
}

func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("square %q: %w", s, ErrInvalidSquare)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("square %q: %w", s, ErrInvalidSquare)
	}
	return Square{Row: int('8' - s[1]), Col: int(s[0] - 'a')}, nil
}

// Direction is a unit step on the board. Knight checks reuse it for the
// knight's jump offset.
type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

func (d Direction) Reverse() Direction {
	return Direction{DRow: -d.DRow, DCol: -d.DCol}
}

// Board is indexed [row][col].
type Board [8][8]Piece

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) Set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func initialBoard() Board {
	var b Board
	for col := 0; col < 8; col++ {
		b[0][col] = Piece{Type: backRank[col], Color: Black}
		b[1][col] = Piece{Type: Pawn, Color: Black}
		b[6][col] = Piece{Type: Pawn, Color: White}
		b[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return b
}
