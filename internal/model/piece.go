package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) letter() byte {
	switch p {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Pawn:
		return 'p'
	}
	return 0
}

func pieceTypeFromLetter(c byte) (PieceType, bool) {
	switch c {
	case 'k':
		return King, true
	case 'q':
		return Queen, true
	case 'r':
		return Rook, true
	case 'b':
		return Bishop, true
	case 'n':
		return Knight, true
	case 'p':
		return Pawn, true
	}
	return "", false
}

// ParsePieceType accepts the lowercase names used on the wire ("queen") or a
// single piece letter ("q").
func ParsePieceType(s string) (PieceType, bool) {
	switch p := PieceType(s); p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return p, true
	}
	if len(s) == 1 {
		c := s[0]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		return pieceTypeFromLetter(c)
	}
	return "", false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == Black {
		return -1
	}
	return 1
}

// homeRank is the rank a pawn of this color starts on.
func (c Color) homeRank() int {
	if c == Black {
		return 7
	}
	return 2
}

type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func (s Square) Valid() bool {
	return s.File >= 1 && s.File <= 8 && s.Rank >= 1 && s.Rank <= 8
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+s.File-1, s.Rank)
}

// ParseSquare reads coordinates such as "e4".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return Square{}, false
	}
	f, r := s[0], s[1]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	sq := Square{File: int(f-'a') + 1, Rank: int(r-'0')}
	return sq, sq.Valid()
}

// SquareFromPoint maps a drop point on a rendered board, measured in pixels from
// the top-left corner, to the square under it.
func SquareFromPoint(x, y, cellSize float64) (Square, bool) {
	if cellSize <= 0 || x < 0 || y < 0 {
		return Square{}, false
	}
	sq := Square{File: int(x/cellSize) + 1, Rank: 8 - int(y/cellSize)}
	return sq, sq.Valid()
}

type Piece struct {
	Type   PieceType `json:"type"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
}

func (p Piece) empty() bool {
	return p.Type == ""
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s on %s", p.Color, p.Type, p.Square)
}
