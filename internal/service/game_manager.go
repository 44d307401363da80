package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chessengine-backend/internal/engine"
	"github.com/benbeisheim/chessengine-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	pending          map[string]model.MatchFoundEvent // pairings nobody was listening for
	clock            time.Duration
	mu               sync.RWMutex
}

func NewGameManager(clock time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		pending:          make(map[string]model.MatchFoundEvent),
		clock:            clock,
	}
}

// Run pairs queued players every interval until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// RegisterMatchmakingChannel listens for the player's pairing on ch and queues
// the player if needed. A pairing made while nobody was listening is
// delivered on ch at once.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// Remove from map first to prevent any new writes
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch

	if event, ok := gm.pending[playerID]; ok {
		delete(gm.pending, playerID)
		gm.sendMatchFound(playerID, event)
		return nil
	}
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		delete(gm.matchingChannels, playerID)
		return err
	}
	return nil
}

// processMatchmaking creates one game per queued pair and notifies both players.
func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.clock)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("matchmaking: adding %s to %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("matchmaking: adding %s to %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = game
		log.Infof("matchmaking: %s (%s) vs %s (%s) in game %s", player1.ID, p1Color, player2.ID, p2Color, gameID)

		gm.notify(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notify(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// notify hands the pairing to the player's channel, or keeps it for
// MatchmakingStatus when there is no listener. The caller holds gm.mu.
func (gm *GameManager) notify(playerID string, event model.MatchFoundEvent) {
	if !gm.sendMatchFound(playerID, event) {
		log.Debugf("matchmaking: holding game %s for %s", event.GameID, playerID)
		gm.pending[playerID] = event
	}
}

// MatchmakingStatus reports whether the player is queued or has been paired.
// A pairing is reported once.
func (gm *GameManager) MatchmakingStatus(playerID string) model.MatchStatus {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if event, ok := gm.pending[playerID]; ok {
		delete(gm.pending, playerID)
		return model.MatchStatus{Status: model.MatchStatusMatched, GameID: event.GameID, Color: event.Color}
	}
	if gm.queue.Contains(playerID) {
		return model.MatchStatus{Status: model.MatchStatusQueued}
	}
	return model.MatchStatus{Status: model.MatchStatusIdle}
}

// sendMatchFound delivers the event and closes the player's channel. The caller holds gm.mu.
func (gm *GameManager) sendMatchFound(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- mustJSON(event):
		return true
	default:
		log.Warnf("matchmaking: channel for %s is not ready", playerID)
		return false
	}
}

// UnregisterMatchmakingChannel forgets the channel without closing it, since
// its creator owns it, and takes the player out of the queue. A replaced
// channel is ignored.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.Remove(playerID)
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) (*model.Game, error) {
	return gm.addGame(gameID, model.NewGame(gameID, gm.clock))
}

// CreateGameFromFEN starts a game from the given position.
func (gm *GameManager) CreateGameFromFEN(gameID, fen string) (*model.Game, error) {
	game, err := model.NewGameFromFEN(gameID, fen, gm.clock)
	if err != nil {
		return nil, err
	}
	return gm.addGame(gameID, game)
}

func (gm *GameManager) addGame(gameID string, game *model.Game) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.NoColor, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}
