package engine

var (
	rookDirs   = [4]Direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = [4]Direction{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}
	kingSteps  = [8]Direction{
		{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1},
	}
)

// pinSet is a read-only view of the pins found by the last scan.
type pinSet map[Square]Direction

func newPinSet(pins []PinInfo) pinSet {
	ps := make(pinSet, len(pins))
	for _, p := range pins {
		ps[p.Square] = p.Dir
	}
	return ps
}

// allows reports whether a piece on sq may step in direction d.
func (ps pinSet) allows(sq Square, d Direction) bool {
	pin, ok := ps[sq]
	return !ok || pin == d || pin == d.Reverse()
}

// ValidMoves returns every legal move for the side to move and refreshes the
// check, pin, checkmate and stalemate status.
func (gs *GameState) ValidMoves() []Move {
	gs.inCheck, gs.pins, gs.checks = gs.scan()
	king := gs.KingSquare(gs.sideToMove)
	pins := newPinSet(gs.pins)

	var moves []Move
	switch {
	case !gs.inCheck:
		moves = gs.allPossibleMoves(pins)
	case len(gs.checks) == 1:
		moves = gs.allPossibleMoves(pins)
		valid := gs.checkResolution(king, gs.checks[0])
		kept := moves[:0]
		for _, m := range moves {
			if m.PieceMoved.Type == King || valid[m.To] {
				kept = append(kept, m)
			}
		}
		moves = kept
	default:
		moves = gs.kingMoves(king, moves)
	}

	if len(moves) == 0 {
		gs.checkmate = gs.inCheck
		gs.stalemate = !gs.inCheck
	} else {
		gs.checkmate = false
		gs.stalemate = false
	}
	if moves == nil {
		moves = []Move{}
	}
	return moves
}

// checkResolution lists the squares a non-king move must land on to answer
// a single check: the knight itself, or the ray from the king up to and
// including the checker.
func (gs *GameState) checkResolution(king Square, check CheckInfo) map[Square]bool {
	valid := make(map[Square]bool, 7)
	if check.Knight {
		valid[check.Square] = true
		return valid
	}
	for i := 1; i < 8; i++ {
		sq := king.step(check.Dir, i)
		if !sq.Valid() {
			break
		}
		valid[sq] = true
		if sq == check.Square {
			break
		}
	}
	return valid
}

// allPossibleMoves generates pseudo-legal, pin-respecting moves in row-major
// board order.
func (gs *GameState) allPossibleMoves(pins pinSet) []Move {
	moves := make([]Move, 0, 48)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := gs.board[r][c]
			if p.Color != gs.sideToMove {
				continue
			}
			sq := Square{Row: r, Col: c}
			switch p.Type {
			case Pawn:
				moves = gs.pawnMoves(sq, pins, moves)
			case Rook:
				moves = gs.slidingMoves(sq, rookDirs, pins, moves)
			case Bishop:
				moves = gs.slidingMoves(sq, bishopDirs, pins, moves)
			case Knight:
				moves = gs.knightMoves(sq, pins, moves)
			case Queen:
				moves = gs.slidingMoves(sq, rookDirs, pins, moves)
				moves = gs.slidingMoves(sq, bishopDirs, pins, moves)
			case King:
				moves = gs.kingMoves(sq, moves)
			}
		}
	}
	return moves
}

func pawnForward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnHomeRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func (gs *GameState) pawnMoves(sq Square, pins pinSet, moves []Move) []Move {
	color := gs.board.At(sq).Color
	fwd := pawnForward(color)
	ahead := Square{Row: sq.Row + fwd, Col: sq.Col}
	if !ahead.Valid() {
		return moves
	}

	if gs.board.At(ahead).IsEmpty() && pins.allows(sq, Direction{fwd, 0}) {
		moves = append(moves, newMove(sq, ahead, &gs.board))
		twoAhead := Square{Row: sq.Row + 2*fwd, Col: sq.Col}
		if sq.Row == pawnHomeRow(color) && gs.board.At(twoAhead).IsEmpty() {
			moves = append(moves, newMove(sq, twoAhead, &gs.board))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		target := Square{Row: ahead.Row, Col: sq.Col + dc}
		if !target.Valid() {
			continue
		}
		if gs.board.At(target).Color != color.Opponent() {
			continue
		}
		if pins.allows(sq, Direction{fwd, dc}) {
			moves = append(moves, newMove(sq, target, &gs.board))
		}
	}
	return moves
}

// slidingMoves walks each direction until blocked. A pinned slider only walks
// the pin axis; for a queen the same pin entry serves both passes.
func (gs *GameState) slidingMoves(sq Square, dirs [4]Direction, pins pinSet, moves []Move) []Move {
	color := gs.board.At(sq).Color
	for _, d := range dirs {
		if !pins.allows(sq, d) {
			continue
		}
		for i := 1; i < 8; i++ {
			target := sq.step(d, i)
			if !target.Valid() {
				break
			}
			p := gs.board.At(target)
			if p.IsEmpty() {
				moves = append(moves, newMove(sq, target, &gs.board))
				continue
			}
			if p.Color != color {
				moves = append(moves, newMove(sq, target, &gs.board))
			}
			break
		}
	}
	return moves
}

func (gs *GameState) knightMoves(sq Square, pins pinSet, moves []Move) []Move {
	// No jump stays on a pin line.
	if _, pinned := pins[sq]; pinned {
		return moves
	}
	color := gs.board.At(sq).Color
	for _, j := range knightJumps {
		target := sq.step(j, 1)
		if !target.Valid() {
			continue
		}
		if gs.board.At(target).Color != color {
			moves = append(moves, newMove(sq, target, &gs.board))
		}
	}
	return moves
}

// kingMoves tries the king on each adjacent square, rescans from there and
// keeps the square only if the king would not be in check. The cached king
// square is always restored.
func (gs *GameState) kingMoves(sq Square, moves []Move) []Move {
	color := gs.board.At(sq).Color
	for _, d := range kingSteps {
		target := sq.step(d, 1)
		if !target.Valid() || gs.board.At(target).Color == color {
			continue
		}
		gs.setKing(color, target)
		inCheck, _, _ := gs.scan()
		gs.setKing(color, sq)
		if !inCheck {
			moves = append(moves, newMove(sq, target, &gs.board))
		}
	}
	return moves
}

// PseudoTargets returns the squares the piece on sq could reach by its
// movement rule alone, ignoring pins and checks. Empty squares and enemy
// pieces yield nil.
func (gs *GameState) PseudoTargets(sq Square) []Square {
	if !sq.Valid() {
		return nil
	}
	p := gs.board.At(sq)
	if p.IsEmpty() || p.Color != gs.sideToMove {
		return nil
	}
	var moves []Move
	none := pinSet{}
	switch p.Type {
	case Pawn:
		moves = gs.pawnMoves(sq, none, moves)
	case Rook:
		moves = gs.slidingMoves(sq, rookDirs, none, moves)
	case Bishop:
		moves = gs.slidingMoves(sq, bishopDirs, none, moves)
	case Knight:
		moves = gs.knightMoves(sq, none, moves)
	case Queen:
		moves = gs.slidingMoves(sq, rookDirs, none, moves)
		moves = gs.slidingMoves(sq, bishopDirs, none, moves)
	case King:
		for _, d := range kingSteps {
			target := sq.step(d, 1)
			if target.Valid() && gs.board.At(target).Color != p.Color {
				moves = append(moves, newMove(sq, target, &gs.board))
			}
		}
	}
	targets := make([]Square, 0, len(moves))
	for _, m := range moves {
		targets = append(targets, m.To)
	}
	return targets
}
