// service/game_manager.go
package service

import (
	"sync"

	"github.com/benbeisheim/dragchess-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games map[string]*model.Game
	mu    sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
	}
}

// CreateGame registers a new game on the given position.
func (gm *GameManager) CreateGame(gameID string, pos model.Position) (*model.Game, error) {
	if err := pos.CheckKings(); err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, errors.Wrap(ErrGameExists, gameID)
	}

	game := model.NewGame(gameID, pos)
	gm.games[gameID] = game
	log.Infof("created game %s", gameID)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, errors.Wrap(ErrGameNotFound, gameID)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.MoveRequest) (bool, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return false, err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Drop(gameID string, playerID string, drop model.DropRequest) (bool, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return false, err
	}
	return game.Drop(playerID, drop)
}

func (gm *GameManager) LegalMoves(gameID string, from model.Square) ([]model.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}

// Shutdown closes every connection of every game.
func (gm *GameManager) Shutdown() error {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	var errs error
	for id, game := range gm.games {
		if err := game.CloseConnections(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "game %s", id))
		}
	}
	return errs
}
