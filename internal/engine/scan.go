package engine

// Ray directions from the king. Indices 0-3 are orthogonal, 4-7 diagonal.
var kingRays = [8]Direction{
	{-1, 0}, {0, -1}, {1, 0}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

var knightJumps = [8]Direction{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// threatens reports whether an enemy piece of type t and color enemy, found
// dist squares from the king along kingRays[ray], attacks the king.
func threatens(t PieceType, enemy Color, ray, dist int) bool {
	orthogonal := ray <= 3
	switch t {
	case Rook:
		return orthogonal
	case Bishop:
		return !orthogonal
	case Queen:
		return true
	case King:
		return dist == 1
	case Pawn:
		if dist != 1 {
			return false
		}
		// A white pawn captures toward row 0, so it sits below the king.
		if enemy == White {
			return ray == 6 || ray == 7
		}
		return ray == 4 || ray == 5
	}
	return false
}

// scan casts rays from the side-to-move king and reports whether it is in
// check, which friendly pieces are pinned, and which enemy pieces give check.
// It reads the cached king square, so it can be run for a tentative king
// placement before the board itself changes.
func (gs *GameState) scan() (bool, []PinInfo, []CheckInfo) {
	var (
		pins    []PinInfo
		checks  []CheckInfo
		inCheck bool
	)
	ally := gs.sideToMove
	enemy := ally.Opponent()
	king := gs.KingSquare(ally)

	for ray, d := range kingRays {
		var candidate *PinInfo
		for i := 1; i < 8; i++ {
			sq := king.step(d, i)
			if !sq.Valid() {
				break
			}
			p := gs.board.At(sq)
			if p.Color == ally && p.Type != King {
				if candidate != nil {
					break
				}
				candidate = &PinInfo{Square: sq, Dir: d}
				continue
			}
			if p.Color != enemy {
				continue
			}
			if threatens(p.Type, enemy, ray, i) {
				if candidate == nil {
					inCheck = true
					checks = append(checks, CheckInfo{Square: sq, Dir: d})
				} else {
					pins = append(pins, *candidate)
				}
			}
			// The first enemy piece ends the ray; anything behind a checker
			// neither checks nor pins.
			break
		}
	}

	for _, j := range knightJumps {
		sq := king.step(j, 1)
		if !sq.Valid() {
			continue
		}
		if p := gs.board.At(sq); p.Color == enemy && p.Type == Knight {
			inCheck = true
			checks = append(checks, CheckInfo{Square: sq, Dir: j, Knight: true})
		}
	}
	return inCheck, pins, checks
}
