package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// play finds the legal move with the given UCI string and makes it.
func play(t *testing.T, gs *GameState, uci string) Move {
	t.Helper()
	for _, m := range gs.ValidMoves() {
		if m.UCI() == uci {
			gs.MakeMove(m)
			return m
		}
	}
	t.Fatalf("move %s is not legal in %s", uci, gs.FEN())
	return Move{}
}

func mustLoad(t *testing.T, fen string) *GameState {
	t.Helper()
	gs, err := LoadFEN(fen)
	if err != nil {
		t.Fatalf("LoadFEN(%q): %v", fen, err)
	}
	return gs
}

type snapshot struct {
	Board     Board
	WhiteKing Square
	BlackKing Square
	Side      Color
	LogLen    int
}

func snap(gs *GameState) snapshot {
	return snapshot{
		Board:     gs.Board(),
		WhiteKing: gs.KingSquare(White),
		BlackKing: gs.KingSquare(Black),
		Side:      gs.SideToMove(),
		LogLen:    len(gs.MoveLog()),
	}
}

func TestNewGame(t *testing.T) {
	gs := NewGame()

	if gs.SideToMove() != White {
		t.Errorf("side to move = %v, want white", gs.SideToMove())
	}
	if got, want := gs.KingSquare(White), (Square{Row: 7, Col: 4}); got != want {
		t.Errorf("white king = %v, want %v", got, want)
	}
	if got, want := gs.KingSquare(Black), (Square{Row: 0, Col: 4}); got != want {
		t.Errorf("black king = %v, want %v", got, want)
	}
	if got := gs.PieceAt(Square{Row: 0, Col: 3}).String(); got != "bQ" {
		t.Errorf("d8 = %s, want bQ", got)
	}
	if got := gs.PieceAt(Square{Row: 6, Col: 0}).String(); got != "wp" {
		t.Errorf("a2 = %s, want wp", got)
	}
	if len(gs.MoveLog()) != 0 {
		t.Errorf("move log not empty")
	}
}

func TestMakeMove(t *testing.T) {
	gs := NewGame()
	m := play(t, gs, "g1f3")

	if !gs.PieceAt(m.From).IsEmpty() {
		t.Errorf("start square still holds %s", gs.PieceAt(m.From))
	}
	if got := gs.PieceAt(m.To).String(); got != "wN" {
		t.Errorf("f3 = %s, want wN", got)
	}
	if gs.SideToMove() != Black {
		t.Errorf("side to move = %v, want black", gs.SideToMove())
	}
	log := gs.MoveLog()
	if len(log) != 1 || !log[0].SameAs(m) {
		t.Errorf("move log = %v, want [%v]", log, m)
	}
}

func TestMakeMoveTracksKing(t *testing.T) {
	gs := mustLoad(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	play(t, gs, "e1d2")
	if got, want := gs.KingSquare(White), (Square{Row: 6, Col: 3}); got != want {
		t.Errorf("white king = %v, want %v", got, want)
	}
	play(t, gs, "e8f7")
	if got, want := gs.KingSquare(Black), (Square{Row: 1, Col: 5}); got != want {
		t.Errorf("black king = %v, want %v", got, want)
	}

	gs.UndoMove()
	if got, want := gs.KingSquare(Black), (Square{Row: 0, Col: 4}); got != want {
		t.Errorf("black king after undo = %v, want %v", got, want)
	}
}

func TestUndoMoveEmptyLog(t *testing.T) {
	gs := NewGame()
	before := snap(gs)
	if _, ok := gs.UndoMove(); ok {
		t.Fatal("UndoMove on empty log reported a move")
	}
	if diff := cmp.Diff(before, snap(gs)); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func TestUndoRestoresCapture(t *testing.T) {
	gs := NewGame()
	for _, uci := range []string{"e2e4", "d7d5"} {
		play(t, gs, uci)
	}
	before := snap(gs)
	capture := play(t, gs, "e4d5")
	if got := capture.PieceCaptured.String(); got != "bp" {
		t.Fatalf("captured %s, want bp", got)
	}

	undone, ok := gs.UndoMove()
	if !ok || !undone.SameAs(capture) {
		t.Fatalf("UndoMove = %v, %v; want %v, true", undone, ok, capture)
	}
	if diff := cmp.Diff(before, snap(gs)); diff != "" {
		t.Errorf("undo mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeUndoRoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/5R2/8/8/8/5n2/8/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			gs := mustLoad(t, fen)
			before := snap(gs)
			for _, m := range gs.ValidMoves() {
				gs.MakeMove(m)
				gs.UndoMove()
				if diff := cmp.Diff(before, snap(gs)); diff != "" {
					t.Fatalf("%s: round trip mismatch (-want +got):\n%s", m.UCI(), diff)
				}
			}
		})
	}
}

func TestUndoClearsTerminalFlags(t *testing.T) {
	gs := NewGame()
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		play(t, gs, uci)
	}
	gs.ValidMoves()
	if !gs.Checkmate() {
		t.Fatal("expected checkmate")
	}
	gs.UndoMove()
	if gs.Checkmate() || gs.Stalemate() {
		t.Errorf("flags after undo: checkmate=%v stalemate=%v", gs.Checkmate(), gs.Stalemate())
	}
}

func TestClone(t *testing.T) {
	gs := NewGame()
	play(t, gs, "e2e4")
	c := gs.Clone()
	play(t, c, "e7e5")

	if len(gs.MoveLog()) != 1 {
		t.Errorf("original log length = %d, want 1", len(gs.MoveLog()))
	}
	if gs.SideToMove() != Black {
		t.Errorf("original side changed to %v", gs.SideToMove())
	}
	if got := gs.PieceAt(Square{Row: 1, Col: 4}).String(); got != "bp" {
		t.Errorf("original e7 = %s, want bp", got)
	}
}

func TestMoveEquality(t *testing.T) {
	gs := NewGame()
	a := newMove(Square{Row: 6, Col: 4}, Square{Row: 4, Col: 4}, &gs.board)
	b := Move{From: a.From, To: a.To}

	if !a.Equal(b) {
		t.Error("moves with the same squares should be Equal")
	}
	if a.SameAs(b) {
		t.Error("SameAs should compare pieces")
	}
	if got, want := a.ID(), 6444; got != want {
		t.Errorf("ID = %d, want %d", got, want)
	}
}

func TestMoveNotation(t *testing.T) {
	tests := []struct {
		uci      string
		notation string
	}{
		{"g1f3", "wNf3"},
		{"e2e4", "wpe4"},
		{"b1c3", "wNc3"},
	}
	for _, tt := range tests {
		gs := NewGame()
		m := play(t, gs, tt.uci)
		if got := m.Notation(); got != tt.notation {
			t.Errorf("%s: notation = %q, want %q", tt.uci, got, tt.notation)
		}
	}
}
