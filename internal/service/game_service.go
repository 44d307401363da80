package service

import (
	"fmt"

	"github.com/benbeisheim/chessengine-backend/internal/engine"
	"github.com/benbeisheim/chessengine-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame starts a game from the standard position, or from fen when it is
// not empty.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	var err error
	if fen == "" {
		_, err = gs.gameManager.CreateGame(gameID)
	} else {
		_, err = gs.gameManager.CreateGameFromFEN(gameID, fen)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) model.MatchStatus {
	return gs.gameManager.MatchmakingStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) GetTargets(gameID string, from string) (model.Targets, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Targets{}, err
	}
	sq, err := engine.ParseSquare(from)
	if err != nil {
		return model.Targets{}, err
	}
	return game.Targets(sq), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gs *GameService) HandleUndo(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Undo(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// Send writes v to conn through the game so it does not race a broadcast.
func (gs *GameService) Send(gameID string, conn model.Conn, v interface{}) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return conn.WriteJSON(v)
	}
	return game.Send(conn, v)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
