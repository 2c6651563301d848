package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/dragchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// NewSyncConn wraps conn so writes from broadcasts and from the connection's
// own handler do not interleave.
func NewSyncConn(conn Conn) Conn {
	return &syncConn{conn: conn}
}

type syncConn struct {
	mu   sync.Mutex
	conn Conn
}

func (c *syncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *syncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *syncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

// Game serializes access to one board and pushes a fresh position to every
// connected client after each move attempt.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	players     Players
	connections *GameConnections

	// pending holds the newest state not yet picked up by sendLoop. It is
	// only written with mu held.
	pending   chan GameState
	done      chan struct{}
	closeOnce sync.Once
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type GameState struct {
	ID       string   `json:"id"`
	Position Snapshot `json:"position"`
	Players  Players  `json:"players"`
}

func NewGame(id string, pos Position) *Game {
	g := &Game{
		ID:          id,
		board:       NewBoard(pos),
		connections: NewGameConnections(),
		pending:     make(chan GameState, 1),
		done:        make(chan struct{}),
	}
	g.board.OnRedraw(g.handleRedraw)
	go g.sendLoop()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// AddPlayer seats the player at the first free color. A player already seated
// gets their color back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("adding player", "game", g.ID, "player", playerID)

	if c, ok := g.colorOf(playerID); ok {
		return c, nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
		return PlayerColorWhite, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (PlayerColor, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case g.players.White.ID:
		return PlayerColorWhite, true
	case g.players.Black.ID:
		return PlayerColorBlack, true
	}
	return "", false
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stateLocked(g.board.Snapshot())
}

func (g *Game) stateLocked(snap Snapshot) GameState {
	return GameState{ID: g.ID, Position: snap, Players: g.players}
}

// MakeMove plays a move for a seated player. The returned bool is the rules
// engine's verdict; errors are reserved for requests that cannot name a move
// at all.
func (g *Game) MakeMove(playerID string, move MoveRequest) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("making move", "game", g.ID, "player", playerID, "from", move.From, "to", move.To)

	if !move.From.Valid() || !move.To.Valid() {
		return false, errors.Wrapf(ErrOutOfBounds, "%s to %s", move.From, move.To)
	}
	piece, ok := g.board.OccupantAt(move.From)
	if !ok {
		return false, errors.Wrap(ErrNoPiece, move.From.String())
	}
	color, seated := g.colorOf(playerID)
	if !seated {
		return false, ErrNotInGame
	}
	if piece.Color != color.pieceColor() {
		return false, ErrNotYourPiece
	}

	var legal bool
	if move.Promotion != "" {
		if !validPromotion(move.Promotion) {
			return false, errors.Wrapf(ErrInvalidPromotion, "%q", move.Promotion)
		}
		legal = g.board.ApplyMoveWithPromotion(piece, move.To, move.Promotion)
	} else {
		legal = g.board.ApplyMove(piece, move.To)
	}
	if !legal {
		log.Debugw("rejected move", "game", g.ID, "piece", piece.String(), "to", move.To.String())
	}
	return legal, nil
}

// Drop plays the move described by a drag gesture.
func (g *Game) Drop(playerID string, drop DropRequest) (bool, error) {
	to, ok := SquareFromPoint(drop.X, drop.Y, drop.CellSize)
	if !ok {
		return false, errors.Wrapf(ErrOutOfBounds, "drop at (%g, %g)", drop.X, drop.Y)
	}
	return g.MakeMove(playerID, MoveRequest{From: drop.From, To: to, Promotion: drop.Promotion})
}

// LegalMoves lists the squares the piece on from may move to.
func (g *Game) LegalMoves(from Square) ([]Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece, ok := g.board.OccupantAt(from)
	if !ok {
		return nil, errors.Wrap(ErrNoPiece, from.String())
	}
	return g.board.LegalDestinations(piece), nil
}

// handleRedraw runs inside a board call, so g.mu is already held.
func (g *Game) handleRedraw(snap Snapshot) {
	g.publishLocked(g.stateLocked(snap))
}

// publishLocked queues state for sendLoop, replacing any older state still
// waiting. Clients always end on the newest state and never see an older one
// after it. Callers hold g.mu.
func (g *Game) publishLocked(state GameState) {
	select {
	case <-g.pending:
	default:
	}
	g.pending <- state
}

func (g *Game) sendLoop() {
	for {
		select {
		case state := <-g.pending:
			if err := g.broadcastState(state); err != nil {
				log.Debugw("broadcast incomplete", "game", g.ID, "err", err)
			}
		case <-g.done:
			return
		}
	}
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debugw("registering connection", "game", g.ID, "player", playerID, "conn", connID)

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing connection; the caller closes the new one.
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		return ErrConnectionExists
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	g.mu.Lock()
	g.publishLocked(g.stateLocked(g.board.Snapshot()))
	g.mu.Unlock()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Debugw("unregistering connection", "game", g.ID, "player", playerID)
		delete(g.connections.connections, playerID)
	}
}

// CloseConnections stops broadcasting, then closes and forgets every
// connection of the game.
func (g *Game) CloseConnections() error {
	g.closeOnce.Do(func() { close(g.done) })

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	var errs error
	for playerID, conn := range g.connections.connections {
		if err := conn.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "close connection of %s", playerID))
		}
		delete(g.connections.connections, playerID)
	}
	return errs
}

func (g *Game) broadcastState(state GameState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "marshal game state")
	}
	msg := ws.Message{Type: ws.MessageTypePosition, Payload: json.RawMessage(payload)}

	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	var errs error
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("failed to send position to player %s: %v", playerID, err)
			errs = multierror.Append(errs, err)
			g.UnregisterConnection(playerID)
		}
	}
	return errs
}
