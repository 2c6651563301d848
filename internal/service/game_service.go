package service

import (
	"strings"

	"github.com/benbeisheim/dragchess-backend/internal/model"
	"github.com/benbeisheim/dragchess-backend/internal/ws"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrBadRequest marks requests that do not decode into a move.
var ErrBadRequest = errors.New("bad request")

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a game from placement, or from the standard opening when
// placement is empty.
func (gs *GameService) CreateGame(placement string) (string, error) {
	pos := model.NewStartingPosition()
	if placement = strings.TrimSpace(placement); placement != "" {
		var err error
		if pos, err = model.ParsePlacement(placement); err != nil {
			return "", errors.Wrap(err, "failed to create game")
		}
	}

	gameID := uuid.New().String()
	if _, err := gs.gameManager.CreateGame(gameID, pos); err != nil {
		return "", errors.Wrap(err, "failed to create game")
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, payload ws.MovePayload) (bool, error) {
	move, err := ParseMove(payload)
	if err != nil {
		return false, err
	}
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) HandleDrop(gameID string, playerID string, payload ws.DropPayload) (bool, error) {
	drop, err := ParseDrop(payload)
	if err != nil {
		return false, err
	}
	return gs.gameManager.Drop(gameID, playerID, drop)
}

func (gs *GameService) LegalMoves(gameID string, from string) ([]model.Square, error) {
	sq, ok := model.ParseSquare(strings.TrimSpace(from))
	if !ok {
		return nil, errors.Wrapf(ErrBadRequest, "invalid square %q", from)
	}
	return gs.gameManager.LegalMoves(gameID, sq)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

func (gs *GameService) Shutdown() error {
	return gs.gameManager.Shutdown()
}

// ParseMove converts a wire move into a model request.
func ParseMove(p ws.MovePayload) (model.MoveRequest, error) {
	from, ok := model.ParseSquare(strings.TrimSpace(p.From))
	if !ok {
		return model.MoveRequest{}, errors.Wrapf(ErrBadRequest, "invalid from square %q", p.From)
	}
	to, ok := model.ParseSquare(strings.TrimSpace(p.To))
	if !ok {
		return model.MoveRequest{}, errors.Wrapf(ErrBadRequest, "invalid to square %q", p.To)
	}
	promotion, err := parsePromotion(p.Promotion)
	if err != nil {
		return model.MoveRequest{}, err
	}
	return model.MoveRequest{From: from, To: to, Promotion: promotion}, nil
}

func ParseDrop(p ws.DropPayload) (model.DropRequest, error) {
	from, ok := model.ParseSquare(strings.TrimSpace(p.From))
	if !ok {
		return model.DropRequest{}, errors.Wrapf(ErrBadRequest, "invalid from square %q", p.From)
	}
	if p.CellSize <= 0 {
		return model.DropRequest{}, errors.Wrapf(ErrBadRequest, "invalid cell size %g", p.CellSize)
	}
	promotion, err := parsePromotion(p.Promotion)
	if err != nil {
		return model.DropRequest{}, err
	}
	return model.DropRequest{From: from, X: p.X, Y: p.Y, CellSize: p.CellSize, Promotion: promotion}, nil
}

func parsePromotion(s string) (model.PieceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	t, ok := model.ParsePieceType(s)
	if !ok {
		return "", errors.Wrapf(ErrBadRequest, "invalid promotion %q", s)
	}
	return t, nil
}
