package engine

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ucis(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.UCI())
	}
	sort.Strings(out)
	return out
}

func TestInitialPositionMoves(t *testing.T) {
	gs := NewGame()
	moves := gs.ValidMoves()

	if len(moves) != 20 {
		t.Fatalf("got %d moves, want 20: %v", len(moves), ucis(moves))
	}
	var pawns, knights int
	for _, m := range moves {
		switch m.PieceMoved.Type {
		case Pawn:
			pawns++
		case Knight:
			knights++
		}
	}
	if pawns != 16 || knights != 4 {
		t.Errorf("pawn moves = %d, knight moves = %d; want 16 and 4", pawns, knights)
	}
	if gs.InCheck() || gs.Checkmate() || gs.Stalemate() {
		t.Errorf("unexpected status: check=%v mate=%v stalemate=%v", gs.InCheck(), gs.Checkmate(), gs.Stalemate())
	}
}

func TestValidMovesOrder(t *testing.T) {
	gs := NewGame()
	got := make([]string, 0, 4)
	for _, m := range gs.ValidMoves()[:4] {
		got = append(got, m.UCI())
	}
	// Row 6 pawns come before the row 7 knights; each pawn emits its single
	// push before the double push.
	want := []string{"a2a3", "a2a4", "b2b3", "b2b4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	again := NewGame().ValidMoves()
	if diff := cmp.Diff(ucis(gs.ValidMoves()), ucis(again)); diff != "" {
		t.Errorf("generation is not deterministic:\n%s", diff)
	}
}

func TestFoolsMate(t *testing.T) {
	gs := NewGame()
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		play(t, gs, uci)
	}
	moves := gs.ValidMoves()

	if len(moves) != 0 {
		t.Errorf("got %d moves, want none: %v", len(moves), ucis(moves))
	}
	if !gs.InCheck() {
		t.Error("white should be in check")
	}
	if !gs.Checkmate() || gs.Stalemate() {
		t.Errorf("checkmate=%v stalemate=%v, want true/false", gs.Checkmate(), gs.Stalemate())
	}
	checks := gs.Checks()
	if len(checks) != 1 || checks[0].Square != (Square{Row: 4, Col: 7}) {
		t.Errorf("checks = %+v, want the queen on h4", checks)
	}
}

func TestPinnedBishopStaysOnDiagonal(t *testing.T) {
	gs := mustLoad(t, "7k/8/8/4b3/8/8/1B6/K7 w - - 0 1")
	moves := gs.ValidMoves()

	var bishop []string
	for _, m := range moves {
		if m.PieceMoved.Type == Bishop {
			bishop = append(bishop, m.UCI())
		}
	}
	sort.Strings(bishop)
	if diff := cmp.Diff([]string{"b2c3", "b2d4", "b2e5"}, bishop); diff != "" {
		t.Errorf("bishop moves mismatch (-want +got):\n%s", diff)
	}

	pins := gs.Pins()
	want := []PinInfo{{Square: Square{Row: 6, Col: 1}, Dir: Direction{DRow: -1, DCol: 1}}}
	if diff := cmp.Diff(want, pins); diff != "" {
		t.Errorf("pins mismatch (-want +got):\n%s", diff)
	}
	if gs.InCheck() {
		t.Error("pinned piece must not count as check")
	}
}

func TestPinnedPieces(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want []string
	}{
		{
			name: "knight never moves",
			fen:  "4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1",
			from: "e2",
			want: []string{},
		},
		{
			name: "rook slides along the pin file",
			fen:  "4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1",
			from: "e2",
			want: []string{"e2e3", "e2e4", "e2e5", "e2e6", "e2e7", "e2e8"},
		},
		{
			name: "queen pinned on a diagonal uses only the diagonal",
			fen:  "7k/8/8/8/8/2b5/1Q6/K7 w - - 0 1",
			from: "b2",
			want: []string{"b2c3"},
		},
		{
			name: "queen pinned on a file uses only the file",
			fen:  "q6k/8/8/8/8/8/Q7/K7 w - - 0 1",
			from: "a2",
			want: []string{"a2a3", "a2a4", "a2a5", "a2a6", "a2a7", "a2a8"},
		},
		{
			name: "pawn pinned on its file still pushes",
			fen:  "4r2k/8/8/8/8/8/4P3/4K3 w - - 0 1",
			from: "e2",
			want: []string{"e2e3", "e2e4"},
		},
		{
			name: "pawn pinned behind its king pushes toward the king",
			fen:  "7k/8/8/4K3/8/8/4P3/4r3 w - - 0 1",
			from: "e2",
			want: []string{"e2e3", "e2e4"},
		},
		{
			name: "pawn pinned on a diagonal only captures the pinner",
			fen:  "7k/8/8/8/8/5b2/4P3/3K4 w - - 0 1",
			from: "e2",
			want: []string{"e2f3"},
		},
		{
			name: "pawn pinned on a rank cannot move",
			fen:  "7k/8/8/KP5r/8/8/8/8 w - - 0 1",
			from: "b5",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := mustLoad(t, tt.fen)
			from, err := ParseSquare(tt.from)
			if err != nil {
				t.Fatal(err)
			}
			got := []string{}
			for _, m := range gs.ValidMoves() {
				if m.From == from {
					got = append(got, m.UCI())
				}
			}
			sort.Strings(got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("moves from %s mismatch (-want +got):\n%s", tt.from, diff)
			}
		})
	}
}

func TestSingleCheckResolution(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{
			name: "block the rook or step aside",
			fen:  "4r2k/8/8/8/8/8/3B4/4K3 w - - 0 1",
			want: []string{"d2e3", "e1d1", "e1f1", "e1f2"},
		},
		{
			name: "queen behind the checking rook is not a second check",
			fen:  "7k/8/8/8/8/4q3/4r3/4K3 w - - 0 1",
			want: []string{"e1d1", "e1f1"},
		},
		{
			name: "knight check can only be captured",
			fen:  "4k3/5R2/8/8/8/5n2/8/4K3 w - - 0 1",
			want: []string{"e1d1", "e1e2", "e1f1", "e1f2", "f7f3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := mustLoad(t, tt.fen)
			moves := gs.ValidMoves()
			if diff := cmp.Diff(tt.want, ucis(moves)); diff != "" {
				t.Errorf("moves mismatch (-want +got):\n%s", diff)
			}
			if !gs.InCheck() || len(gs.Checks()) != 1 {
				t.Errorf("inCheck=%v checks=%d, want single check", gs.InCheck(), len(gs.Checks()))
			}
			if gs.Checkmate() || gs.Stalemate() {
				t.Error("terminal flag set with moves available")
			}
		})
	}
}

func TestKnightCheckFlag(t *testing.T) {
	gs := mustLoad(t, "4k3/5R2/8/8/8/5n2/8/4K3 w - - 0 1")
	gs.ValidMoves()
	want := []CheckInfo{{
		Square: Square{Row: 5, Col: 5},
		Dir:    Direction{DRow: -2, DCol: 1},
		Knight: true,
	}}
	if diff := cmp.Diff(want, gs.Checks()); diff != "" {
		t.Errorf("checks mismatch (-want +got):\n%s", diff)
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// The rook on d1 could take the knight, which would not answer the rook.
	gs := mustLoad(t, "k3r3/8/8/8/8/3n4/8/3RK3 w - - 0 1")
	moves := gs.ValidMoves()

	if got := len(gs.Checks()); got != 2 {
		t.Fatalf("checks = %d, want 2", got)
	}
	for _, m := range moves {
		if m.PieceMoved.Type != King {
			t.Errorf("non-king move %s under double check", m.UCI())
		}
	}
	if diff := cmp.Diff([]string{"e1d2", "e1f1"}, ucis(moves)); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestStalemate(t *testing.T) {
	gs := mustLoad(t, "k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	moves := gs.ValidMoves()

	if len(moves) != 0 {
		t.Errorf("got moves %v, want none", ucis(moves))
	}
	if moves == nil {
		t.Error("ValidMoves returned nil, want empty slice")
	}
	if !gs.Stalemate() || gs.Checkmate() || gs.InCheck() {
		t.Errorf("stalemate=%v checkmate=%v inCheck=%v", gs.Stalemate(), gs.Checkmate(), gs.InCheck())
	}
}

func TestKingsKeepTheirDistance(t *testing.T) {
	gs := mustLoad(t, "8/8/8/3k4/8/3K4/8/8 w - - 0 1")
	for _, m := range gs.ValidMoves() {
		if m.To.Row == 4 {
			t.Errorf("king move %s lands next to the enemy king", m.UCI())
		}
	}
}

func TestKingCannotRetreatAlongCheckRay(t *testing.T) {
	gs := mustLoad(t, "4r2k/8/8/8/8/8/4K3/8 w - - 0 1")
	for _, m := range gs.ValidMoves() {
		if m.UCI() == "e2e1" {
			t.Error("king retreated along the rook's file")
		}
	}
}

func TestPawnsNeverPromote(t *testing.T) {
	gs := mustLoad(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	play(t, gs, "a7a8")
	if got := gs.PieceAt(Square{Row: 0, Col: 0}).String(); got != "wp" {
		t.Errorf("a8 = %s, want wp", got)
	}
	play(t, gs, "h8g7")
	for _, m := range gs.ValidMoves() {
		if m.From == (Square{Row: 0, Col: 0}) {
			t.Errorf("pawn on the last rank moved: %s", m.UCI())
		}
	}
}

func TestPseudoTargets(t *testing.T) {
	gs := mustLoad(t, "7k/8/8/4b3/8/8/1B6/K7 w - - 0 1")
	gs.ValidMoves()

	var got []string
	for _, sq := range gs.PseudoTargets(Square{Row: 6, Col: 1}) {
		got = append(got, sq.String())
	}
	sort.Strings(got)
	want := []string{"a3", "c1", "c3", "d4", "e5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	if targets := gs.PseudoTargets(Square{Row: 0, Col: 7}); targets != nil {
		t.Errorf("enemy piece produced targets %v", targets)
	}
	if targets := gs.PseudoTargets(Square{Row: 4, Col: 4}); targets != nil {
		t.Errorf("empty square produced targets %v", targets)
	}
}
