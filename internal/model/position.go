package model

// Position is the full board state: which piece stands on each square and whose
// turn it is. It is a plain value; assigning it copies every square.
type Position struct {
	squares [8][8]Piece
	Turn    Color
}

func NewPosition() Position {
	return Position{Turn: White}
}

// At returns the piece on sq. ok is false for an empty or off-board square.
func (pos *Position) At(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	p := pos.squares[sq.File-1][sq.Rank-1]
	return p, !p.empty()
}

// Put places p on p.Square, replacing whatever stood there.
func (pos *Position) Put(p Piece) {
	pos.squares[p.Square.File-1][p.Square.Rank-1] = p
}

func (pos *Position) Remove(sq Square) {
	pos.squares[sq.File-1][sq.Rank-1] = Piece{}
}

// Pieces lists every piece from rank 8 down to rank 1, files left to right.
func (pos *Position) Pieces() []Piece {
	pieces := make([]Piece, 0, 32)
	for rank := 8; rank >= 1; rank-- {
		for file := 1; file <= 8; file++ {
			if p := pos.squares[file-1][rank-1]; !p.empty() {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (pos *Position) king(c Color) (Piece, bool) {
	for file := range pos.squares {
		for rank := range pos.squares[file] {
			if p := pos.squares[file][rank]; p.Type == King && p.Color == c {
				return p, true
			}
		}
	}
	return Piece{}, false
}
