package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessengine-backend/internal/engine"
	"github.com/benbeisheim/chessengine-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex      // websocket writes are not concurrency safe
	sent        map[Conn]uint64 // last state version written to each conn, guarded by writeMu
}

// Game owns one position. Every engine call happens under mu, so the position
// has a single writer.
type Game struct {
	ID          string
	mu          sync.Mutex
	position    *engine.GameState
	legal       []engine.Move
	sound       string
	players     Players
	version     uint64
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the snapshot sent to clients.
type GameState struct {
	ID          string         `json:"id"`
	Version     uint64         `json:"version"`
	Sound       string         `json:"sound"`
	Board       engine.Board   `json:"board"`
	FEN         string         `json:"fen"`
	ToMove      engine.Color   `json:"toMove"`
	MoveHistory []Ply          `json:"moveHistory"`
	LastMove    *SimpleMove    `json:"lastMove"`
	IsCheck     bool           `json:"isCheck"`
	Checkmate   bool           `json:"checkmate"`
	Stalemate   bool           `json:"stalemate"`
	Resolve     *string        `json:"resolve"`
	WhiteKing   engine.Square  `json:"whiteKing"`
	BlackKing   engine.Square  `json:"blackKing"`
	CheckedKing *engine.Square `json:"checkedKing"`
	LegalMoves  int            `json:"legalMoves"`
	Players     Players        `json:"players"`
}

func NewGame(id string, clock time.Duration) *Game {
	return newGameFrom(id, engine.NewGame(), clock)
}

// NewGameFromFEN starts a game from an arbitrary position.
func NewGameFromFEN(id, fen string, clock time.Duration) (*Game, error) {
	position, err := engine.LoadFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGameFrom(id, position, clock), nil
}

func newGameFrom(id string, position *engine.GameState, clock time.Duration) *Game {
	g := &Game{
		ID:          id,
		position:    position,
		version:     1,
		connections: NewGameConnections(),
		whiteClock:  NewClock(clock),
		blackClock:  NewClock(clock),
	}
	g.legal = g.position.ValidMoves()
	g.players.White = ClientPlayer{TimeLeft: g.whiteClock.tenths()}
	g.players.Black = ClientPlayer{TimeLeft: g.blackClock.tenths()}
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
		sent:        make(map[Conn]uint64),
	}
}

// AddPlayer seats the player as white, then black. Seating an already seated
// player returns their color.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c := g.colorOf(playerID); c != engine.NoColor {
		return c, nil
	}
	if g.players.White.ID == "" {
		g.players.White.ID = playerID
		g.players.White.Color = engine.White
		log.Infof("game %s: %s joined as white", g.ID, playerID)
		return engine.White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black.ID = playerID
		g.players.Black.Color = engine.Black
		log.Infof("game %s: %s joined as black", g.ID, playerID)
		return engine.Black, nil
	}
	return engine.NoColor, ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.colorOf(playerID) != engine.NoColor
}

func (g *Game) colorOf(playerID string) engine.Color {
	switch {
	case playerID == "":
		return engine.NoColor
	case g.players.White.ID == playerID:
		return engine.White
	case g.players.Black.ID == playerID:
		return engine.Black
	}
	return engine.NoColor
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) isOver() bool {
	return g.position.Checkmate() || g.position.Stalemate()
}

// Targets lists where the piece on from may go. Squares not holding a piece
// of the side to move yield empty lists.
func (g *Game) Targets(from engine.Square) Targets {
	g.mu.Lock()
	defer g.mu.Unlock()

	return newTargets(from, g.legal, g.position.PseudoTargets(from))
}

// MakeMove validates the request against the current legal moves and plays it.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: move %+v from %s", g.ID, move, playerID)

	if g.isOver() {
		return ErrGameOver
	}
	color := g.colorOf(playerID)
	if color == engine.NoColor {
		return ErrNotInGame
	}
	if color != g.position.SideToMove() {
		return ErrNotYourTurn
	}
	from, to, err := move.squares()
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	requested := engine.Move{From: from, To: to}
	var chosen *engine.Move
	for i := range g.legal {
		if g.legal[i].Equal(requested) {
			chosen = &g.legal[i]
			break
		}
	}
	if chosen == nil {
		return ErrIllegalMove
	}

	g.clockFor(color).Stop()
	g.position.MakeMove(*chosen)
	g.refresh()
	if !g.isOver() {
		g.clockFor(color.Opponent()).Start()
	}

	switch {
	case g.position.InCheck():
		g.sound = "check"
	case chosen.IsCapture():
		g.sound = "capture"
	default:
		g.sound = "move"
	}
	if g.isOver() {
		log.Infof("game %s: %s", g.ID, *g.resolve())
	}

	g.version++
	go g.broadcastState(g.snapshot())
	return nil
}

// Undo takes back the last ply and hands the clock back to its player.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.colorOf(playerID) == engine.NoColor {
		return ErrNotInGame
	}
	m, ok := g.position.UndoMove()
	if !ok {
		return ErrNothingToUndo
	}
	log.Infof("game %s: %s took back %s", g.ID, playerID, m.Notation())

	mover := m.PieceMoved.Color
	g.clockFor(mover.Opponent()).Stop()
	g.refresh()
	if len(g.position.MoveLog()) > 0 {
		g.clockFor(mover).Start()
	}
	g.sound = "move"

	g.version++
	go g.broadcastState(g.snapshot())
	return nil
}

// refresh recomputes legal moves and the status flags that depend on them.
func (g *Game) refresh() {
	g.legal = g.position.ValidMoves()
	g.players.White.TimeLeft = g.whiteClock.tenths()
	g.players.Black.TimeLeft = g.blackClock.tenths()
}

func (g *Game) clockFor(c engine.Color) *Clock {
	if c == engine.White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) resolve() *string {
	var result string
	switch {
	case g.position.Checkmate():
		result = fmt.Sprintf("%s wins by checkmate", g.position.SideToMove().Opponent())
	case g.position.Stalemate():
		result = "stalemate"
	default:
		return nil
	}
	return &result
}

func (g *Game) snapshot() GameState {
	history := make([]Ply, 0)
	for _, m := range g.position.MoveLog() {
		history = append(history, newPly(m))
	}
	state := GameState{
		ID:          g.ID,
		Version:     g.version,
		Sound:       g.sound,
		Board:       g.position.Board(),
		FEN:         g.position.FEN(),
		ToMove:      g.position.SideToMove(),
		MoveHistory: history,
		IsCheck:     g.position.InCheck(),
		Checkmate:   g.position.Checkmate(),
		Stalemate:   g.position.Stalemate(),
		Resolve:     g.resolve(),
		WhiteKing:   g.position.KingSquare(engine.White),
		BlackKing:   g.position.KingSquare(engine.Black),
		LegalMoves:  len(g.legal),
		Players:     g.players,
	}
	if last, ok := g.position.LastMove(); ok {
		state.LastMove = &SimpleMove{From: last.From, To: last.To}
	}
	if state.IsCheck {
		king := g.position.KingSquare(state.ToMove)
		state.CheckedKing = &king
	}
	return state
}

// RegisterConnection attaches a websocket to the game and sends it the current state.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.colorOf(playerID) != engine.NoColor || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection for %s", g.ID, playerID)

	go g.broadcastState(state)
	return nil
}

// UnregisterConnection drops the player's connection only if conn is still the
// registered one, so a stale socket closing does not evict its replacement.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()

	current, exists := g.connections.connections[playerID]
	if !exists || current != conn {
		g.connections.mu.Unlock()
		return
	}
	log.Infof("game %s: unregistering connection for %s", g.ID, playerID)
	delete(g.connections.connections, playerID)
	g.connections.mu.Unlock()

	g.connections.writeMu.Lock()
	delete(g.connections.sent, conn)
	g.connections.writeMu.Unlock()
}

func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	// Broadcasts run on their own goroutines; a connection that already has a
	// newer state skips an older one.
	failed := make(map[string]Conn)
	g.connections.writeMu.Lock()
	for playerID, conn := range active {
		if g.connections.sent[conn] >= state.Version {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			failed[playerID] = conn
			continue
		}
		g.connections.sent[conn] = state.Version
	}
	g.connections.writeMu.Unlock()

	for playerID, conn := range failed {
		g.UnregisterConnection(playerID, conn)
	}
}

// Send writes v to one connection, serialized with broadcasts.
func (g *Game) Send(conn Conn, v interface{}) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(v)
}
