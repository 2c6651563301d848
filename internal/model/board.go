package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Snapshot is a read-only copy of a position handed to renderers.
type Snapshot struct {
	Turn      Color   `json:"turn"`
	Placement string  `json:"placement"`
	Pieces    []Piece `json:"pieces"`
}

// Board is the rules engine. It owns a position and only changes it through
// ApplyMove. A Board is not safe for concurrent use.
type Board struct {
	pos       Position
	promotion PieceType
	onRedraw  func(Snapshot)
}

func NewBoard(pos Position) *Board {
	return &Board{pos: pos, promotion: Queen}
}

// NewStartingBoard returns a board set up for a new game.
func NewStartingBoard() *Board {
	return NewBoard(NewStartingPosition())
}

func (b *Board) Turn() Color {
	return b.pos.Turn
}

// Position returns a copy of the current position.
func (b *Board) Position() Position {
	return b.pos
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Turn:      b.pos.Turn,
		Placement: b.pos.Placement(),
		Pieces:    b.pos.Pieces(),
	}
}

// OnRedraw registers fn to receive a snapshot after every move attempt.
func (b *Board) OnRedraw(fn func(Snapshot)) {
	b.onRedraw = fn
}

// SetPromotion changes the piece pawns become on the last rank.
func (b *Board) SetPromotion(t PieceType) error {
	if !validPromotion(t) {
		return errors.Wrapf(ErrInvalidPromotion, "%q", t)
	}
	b.promotion = t
	return nil
}

func validPromotion(t PieceType) bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

func (b *Board) OccupantAt(sq Square) (Piece, bool) {
	return b.pos.At(sq)
}

// PathClear reports whether every square strictly between from and to is
// empty. The squares must share a rank, file or diagonal; any other pair
// reports false.
func (b *Board) PathClear(from, to Square) bool {
	return pathClear(&b.pos, from, to)
}

func pathClear(pos *Position, from, to Square) bool {
	df, dr, ok := lineStep(from, to)
	if !ok {
		return false
	}
	for sq := (Square{File: from.File + df, Rank: from.Rank + dr}); sq != to; sq = (Square{File: sq.File + df, Rank: sq.Rank + dr}) {
		if _, occupied := pos.At(sq); occupied {
			return false
		}
	}
	return true
}

// IsLegal reports whether p may move to dest. p must be the piece currently
// standing on p.Square. Illegal moves are a normal outcome, not an error.
func (b *Board) IsLegal(p Piece, dest Square) bool {
	if !dest.Valid() {
		return false
	}
	if cur, ok := b.pos.At(p.Square); !ok || cur != p {
		return false
	}

	if p.Color != b.pos.Turn {
		return false
	}
	if !p.CanReach(dest) {
		return false
	}
	occupant, occupied := b.pos.At(dest)
	if p.Type == Pawn {
		_, opening := PawnStep(p.Square, dest, p.Color)
		if opening && p.Square.Rank != p.Color.homeRank() {
			return false
		}
		// Straight pawn moves need an empty square; diagonal ones must capture.
		if dest.File == p.Square.File {
			if occupied {
				return false
			}
		} else if !occupied {
			return false
		}
	}
	if occupied && occupant.Color == p.Color {
		return false
	}
	if p.Type != Knight && !b.PathClear(p.Square, dest) {
		return false
	}
	return !b.WouldBeInCheck(p, dest)
}

// WouldBeInCheck plays p to dest on a copy of the position and reports whether
// the king of the side to move is then attacked. dest must be on the board.
// The live position is never touched.
func (b *Board) WouldBeInCheck(p Piece, dest Square) bool {
	hypo := b.pos
	hypo.Remove(p.Square)
	moved := p
	moved.Square = dest
	hypo.Put(moved)

	king, ok := hypo.king(b.pos.Turn)
	if !ok {
		panic(fmt.Sprintf("no %s king on the board: %s", b.pos.Turn, b.pos.Placement()))
	}
	for _, attacker := range hypo.Pieces() {
		if attacker.Color == king.Color {
			continue
		}
		if attacks(&hypo, attacker, king.Square) {
			return true
		}
	}
	return false
}

func attacks(pos *Position, attacker Piece, target Square) bool {
	switch attacker.Type {
	case King, Knight:
		return attacker.CanReach(target)
	case Pawn:
		return pawnAttacks(attacker, target)
	case Bishop, Rook, Queen:
		return attacker.CanReach(target) && pathClear(pos, attacker.Square, target)
	}
	return false
}

// ApplyMove plays p to dest if the move is legal, promoting with the board's
// promotion kind. The redraw listener runs whether or not the move was played.
func (b *Board) ApplyMove(p Piece, dest Square) bool {
	return b.apply(p, dest, b.promotion)
}

// ApplyMoveWithPromotion is ApplyMove with an explicit promotion kind for this
// move only. A kind no pawn may become makes the move illegal.
func (b *Board) ApplyMoveWithPromotion(p Piece, dest Square, promotion PieceType) bool {
	if !validPromotion(promotion) {
		b.redraw()
		return false
	}
	return b.apply(p, dest, promotion)
}

func (b *Board) apply(p Piece, dest Square, promotion PieceType) bool {
	defer b.redraw()
	if !b.IsLegal(p, dest) {
		return false
	}
	b.pos.Remove(dest)
	b.pos.Remove(p.Square)
	p.Square = dest
	if p.Type == Pawn && (dest.Rank == 1 || dest.Rank == 8) {
		p = Piece{Type: promotion, Color: p.Color, Square: dest}
	}
	b.pos.Put(p)
	b.pos.Turn = b.pos.Turn.Opponent()
	return true
}

func (b *Board) redraw() {
	if b.onRedraw != nil {
		b.onRedraw(b.Snapshot())
	}
}

// LegalDestinations lists every square p may legally move to.
func (b *Board) LegalDestinations(p Piece) []Square {
	var dests []Square
	for rank := 8; rank >= 1; rank-- {
		for file := 1; file <= 8; file++ {
			sq := Square{File: file, Rank: rank}
			if b.IsLegal(p, sq) {
				dests = append(dests, sq)
			}
		}
	}
	return dests
}
