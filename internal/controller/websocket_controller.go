package controller

import (
	"encoding/json"

	"github.com/benbeisheim/dragchess-backend/internal/model"
	"github.com/benbeisheim/dragchess-backend/internal/service"
	"github.com/benbeisheim/dragchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	log.Debugw("websocket connected", "game", gameID, "player", playerID)

	conn := model.NewSyncConn(c)
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnf("failed to register connection: %v", err)
		wsc.sendError(conn, err.Error())
		conn.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("websocket read ended", "game", gameID, "player", playerID, "err", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, "invalid message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugw("websocket message failed", "game", gameID, "player", playerID, "err", err)
			wsc.sendError(conn, err.Error())
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID)
}

// handleMessage dispatches one client message. The resulting position reaches
// the client through the game's broadcast, legal or not.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return errors.Wrap(err, "invalid move payload")
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeDrop:
		var drop ws.DropPayload
		if err := json.Unmarshal(msg.Payload, &drop); err != nil {
			return errors.Wrap(err, "invalid drop payload")
		}
		_, err := wsc.gameService.HandleDrop(gameID, playerID, drop)
		return err

	default:
		return errors.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c model.Conn, errorMsg string) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: errorMsg})
	if err := c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	}); err != nil {
		log.Debugw("failed to send error", "err", err)
	}
}
