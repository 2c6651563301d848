package model

import "github.com/pkg/errors"

var (
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player not in game")
	ErrNotYourPiece     = errors.New("not your piece")
	ErrNoPiece          = errors.New("no piece at from square")
	ErrOutOfBounds      = errors.New("square out of bounds")
	ErrInvalidPromotion = errors.New("invalid promotion piece")
	ErrConnectionExists = errors.New("connection already exists")
)
