package model

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// CanReach reports whether the shape of the move from p.Square to dest fits the
// piece's movement rule. Other pieces on the board are not considered.
func (p Piece) CanReach(dest Square) bool {
	df := abs(dest.File - p.Square.File)
	dr := abs(dest.Rank - p.Square.Rank)
	switch p.Type {
	case King:
		return max(df, dr) == 1
	case Knight:
		return (df == 1 && dr == 2) || (df == 2 && dr == 1)
	case Bishop:
		return diagonal(df, dr)
	case Rook:
		return straight(df, dr)
	case Queen:
		return diagonal(df, dr) || straight(df, dr)
	case Pawn:
		ok, _ := PawnStep(p.Square, dest, p.Color)
		return ok
	}
	return false
}

// PawnStep is the pawn movement rule. opening is set for the two-square
// advance; whether the pawn is on its home rank and whether the squares are
// free is left to the board.
func PawnStep(from, to Square, c Color) (ok, opening bool) {
	df := abs(to.File - from.File)
	dr := (to.Rank - from.Rank) * c.forward()
	if dr == 2 && df == 0 {
		return true, true
	}
	return dr == 1 && df <= 1, false
}

// pawnAttacks is narrower than PawnStep: straight advances never threaten.
func pawnAttacks(p Piece, target Square) bool {
	return target.Rank-p.Square.Rank == p.Color.forward() && abs(target.File-p.Square.File) == 1
}

func diagonal(df, dr int) bool {
	return df == dr && df != 0
}

func straight(df, dr int) bool {
	return (df == 0) != (dr == 0)
}

// lineStep returns the unit step from one square toward another along a rank,
// file or diagonal. ok is false when the squares are not on a common line.
func lineStep(from, to Square) (df, dr int, ok bool) {
	f := to.File - from.File
	r := to.Rank - from.Rank
	if !diagonal(abs(f), abs(r)) && !straight(abs(f), abs(r)) {
		return 0, 0, false
	}
	return sign(f), sign(r), true
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
