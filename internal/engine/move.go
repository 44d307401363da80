package engine

// Move is immutable once generated. PieceCaptured is NoPiece for quiet moves.
type Move struct {
	From          Square `json:"from"`
	To            Square `json:"to"`
	PieceMoved    Piece  `json:"pieceMoved"`
	PieceCaptured Piece  `json:"pieceCaptured"`
}

func newMove(from, to Square, board *Board) Move {
	return Move{
		From:          from,
		To:            to,
		PieceMoved:    board.At(from),
		PieceCaptured: board.At(to),
	}
}

// ID packs the coordinates into a single number; pieces do not take part.
func (m Move) ID() int {
	return m.From.Row*1000 + m.From.Col*100 + m.To.Row*10 + m.To.Col
}

// Equal reports whether both moves share start and end squares. The pieces are
// ignored, so moves taken from different positions can compare equal.
func (m Move) Equal(other Move) bool {
	return m.ID() == other.ID()
}

// SameAs is the strict comparison: coordinates and both pieces.
func (m Move) SameAs(other Move) bool {
	return m == other
}

func (m Move) IsCapture() bool {
	return !m.PieceCaptured.IsEmpty()
}

// Notation renders the moved piece followed by the destination, e.g. "wNe4".
func (m Move) Notation() string {
	return m.PieceMoved.String() + m.To.String()
}

// UCI renders start and end squares, e.g. "e2e4".
func (m Move) UCI() string {
	return m.From.String() + m.To.String()
}

func (m Move) String() string {
	return m.Notation()
}
