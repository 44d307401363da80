package engine

// PinInfo marks a friendly piece that may only move along Dir (either sign).
// Dir points from the king outward.
type PinInfo struct {
	Square Square    `json:"square"`
	Dir    Direction `json:"dir"`
}

// CheckInfo records one piece giving check. For a knight Dir is the jump
// offset from the king rather than a ray.
type CheckInfo struct {
	Square Square    `json:"square"`
	Dir    Direction `json:"dir"`
	Knight bool      `json:"knight"`
}

// GameState tracks a position, its move log and the status derived by the
// last call to ValidMoves. It is not safe for concurrent use.
type GameState struct {
	board      Board
	moveLog    []Move
	sideToMove Color
	whiteKing  Square
	blackKing  Square
	inCheck    bool
	pins       []PinInfo
	checks     []CheckInfo
	checkmate  bool
	stalemate  bool
}

// NewGame returns the standard starting position with White to move.
func NewGame() *GameState {
	return &GameState{
		board:      initialBoard(),
		moveLog:    make([]Move, 0),
		sideToMove: White,
		whiteKing:  Square{Row: 7, Col: 4},
		blackKing:  Square{Row: 0, Col: 4},
	}
}

// MakeMove plays m, which must have been generated against the current board.
func (gs *GameState) MakeMove(m Move) {
	gs.board.Set(m.From, NoPiece)
	gs.board.Set(m.To, m.PieceMoved)
	gs.moveLog = append(gs.moveLog, m)
	if m.PieceMoved.Type == King {
		gs.setKing(m.PieceMoved.Color, m.To)
	}
	gs.sideToMove = gs.sideToMove.Opponent()
}

// UndoMove takes back the last move. It returns false when the log is empty.
func (gs *GameState) UndoMove() (Move, bool) {
	if len(gs.moveLog) == 0 {
		return Move{}, false
	}
	m := gs.moveLog[len(gs.moveLog)-1]
	gs.moveLog = gs.moveLog[:len(gs.moveLog)-1]
	gs.board.Set(m.From, m.PieceMoved)
	gs.board.Set(m.To, m.PieceCaptured)
	if m.PieceMoved.Type == King {
		gs.setKing(m.PieceMoved.Color, m.From)
	}
	gs.sideToMove = gs.sideToMove.Opponent()
	gs.checkmate = false
	gs.stalemate = false
	return m, true
}

func (gs *GameState) setKing(c Color, sq Square) {
	if c == White {
		gs.whiteKing = sq
	} else {
		gs.blackKing = sq
	}
}

func (gs *GameState) KingSquare(c Color) Square {
	if c == White {
		return gs.whiteKing
	}
	return gs.blackKing
}

func (gs *GameState) SideToMove() Color { return gs.sideToMove }
func (gs *GameState) InCheck() bool     { return gs.inCheck }
func (gs *GameState) Checkmate() bool   { return gs.checkmate }
func (gs *GameState) Stalemate() bool   { return gs.stalemate }

// Board returns a copy of the grid.
func (gs *GameState) Board() Board { return gs.board }

func (gs *GameState) PieceAt(sq Square) Piece {
	return gs.board.At(sq)
}

func (gs *GameState) MoveLog() []Move {
	return append([]Move(nil), gs.moveLog...)
}

func (gs *GameState) LastMove() (Move, bool) {
	if len(gs.moveLog) == 0 {
		return Move{}, false
	}
	return gs.moveLog[len(gs.moveLog)-1], true
}

func (gs *GameState) Pins() []PinInfo {
	return append([]PinInfo(nil), gs.pins...)
}

func (gs *GameState) Checks() []CheckInfo {
	return append([]CheckInfo(nil), gs.checks...)
}

// Clone returns a deep copy that can be analysed independently.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.moveLog = append(make([]Move, 0, len(gs.moveLog)), gs.moveLog...)
	c.pins = append([]PinInfo(nil), gs.pins...)
	c.checks = append([]CheckInfo(nil), gs.checks...)
	return &c
}
