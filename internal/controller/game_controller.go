package controller

import (
	"github.com/benbeisheim/dragchess-backend/internal/model"
	"github.com/benbeisheim/dragchess-backend/internal/service"
	"github.com/benbeisheim/dragchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameBody struct {
	Placement string `json:"placement"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var body createGameBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "invalid json")
		}
	}

	gameID, err := gc.gameService.CreateGame(body.Placement)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	squares, err := gc.gameService.LegalMoves(c.Params("gameId"), c.Params("square"))
	if err != nil {
		return respondError(c, err)
	}
	if squares == nil {
		squares = []model.Square{}
	}
	return c.JSON(fiber.Map{"moves": squares})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var body ws.MovePayload
	if err := c.BodyParser(&body); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid json")
	}
	legal, err := gc.gameService.HandleMove(gameID, playerID, body)
	if err != nil {
		return respondError(c, err)
	}
	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"legal": legal,
		"state": state,
	})
}

// statusFor maps service and model errors onto HTTP status codes.
func statusFor(err error) int {
	var placementErr *model.PlacementError
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameExists), errors.Is(err, model.ErrGameFull):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotYourPiece):
		return fiber.StatusForbidden
	case errors.As(err, &placementErr),
		errors.Is(err, service.ErrBadRequest),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrOutOfBounds),
		errors.Is(err, model.ErrInvalidPromotion):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %+v", c.Method(), c.Path(), err)
		return errorResponse(c, status, "internal error")
	}
	return errorResponse(c, status, err.Error())
}

func errorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}
