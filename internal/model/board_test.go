package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardFrom(t *testing.T, placement string) *Board {
	t.Helper()
	pos, err := ParsePlacement(placement)
	require.NoError(t, err)
	return NewBoard(pos)
}

func pieceAt(t *testing.T, b *Board, name string) Piece {
	t.Helper()
	p, ok := b.OccupantAt(sq(name))
	require.True(t, ok, "no piece on %s", name)
	return p
}

func TestOccupantAtMatchesSquare(t *testing.T) {
	b := NewStartingBoard()
	found := 0
	for file := 1; file <= 8; file++ {
		for rank := 1; rank <= 8; rank++ {
			s := Square{File: file, Rank: rank}
			if p, ok := b.OccupantAt(s); ok {
				assert.Equal(t, s, p.Square)
				found++
			}
		}
	}
	assert.Equal(t, 32, found)

	_, ok := b.OccupantAt(Square{File: 0, Rank: 3})
	assert.False(t, ok)
}

func TestPawnOpeningMove(t *testing.T) {
	b := NewStartingBoard()
	pawn := pieceAt(t, b, "e2")

	require.True(t, b.ApplyMove(pawn, Square{File: 5, Rank: 4}))
	assert.Equal(t, Black, b.Turn())

	_, ok := b.OccupantAt(Square{File: 5, Rank: 2})
	assert.False(t, ok)
	moved, ok := b.OccupantAt(Square{File: 5, Rank: 4})
	require.True(t, ok)
	assert.Equal(t, Piece{Type: Pawn, Color: White, Square: Square{File: 5, Rank: 4}}, moved)
}

func TestIllegalMoveLeavesPositionUnchanged(t *testing.T) {
	b := NewStartingBoard()
	before := b.Position()

	assert.False(t, b.ApplyMove(pieceAt(t, b, "e2"), Square{File: 5, Rank: 5}))
	assert.Equal(t, before, b.Position())
	assert.Equal(t, White, b.Turn())
}

func TestTurnAlternates(t *testing.T) {
	b := NewStartingBoard()

	// Black may not move first.
	assert.False(t, b.ApplyMove(pieceAt(t, b, "e7"), sq("e5")))
	assert.Equal(t, White, b.Turn())

	require.True(t, b.ApplyMove(pieceAt(t, b, "g1"), sq("f3")))
	assert.Equal(t, Black, b.Turn())

	// White may not move twice.
	assert.False(t, b.ApplyMove(pieceAt(t, b, "f3"), sq("g5")))
	assert.Equal(t, Black, b.Turn())

	require.True(t, b.ApplyMove(pieceAt(t, b, "e7"), sq("e5")))
	assert.Equal(t, White, b.Turn())
}

func TestPawnAdvances(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		from      string
		to        string
		want      bool
	}{
		{"two squares from home", "4k3/8/8/8/8/8/4P3/4K3", "e2", "e4", true},
		{"one square", "4k3/8/8/8/8/8/4P3/4K3", "e2", "e3", true},
		{"two squares blocked on first", "4k3/8/8/8/8/4n3/4P3/4K3", "e2", "e4", false},
		{"two squares blocked on second", "4k3/8/8/8/4n3/8/4P3/4K3", "e2", "e4", false},
		{"one square blocked", "4k3/8/8/8/8/4n3/4P3/4K3", "e2", "e3", false},
		{"two squares off home rank", "4k3/8/8/8/8/4P3/8/4K3", "e3", "e5", false},
		{"diagonal without capture", "4k3/8/8/8/8/8/4P3/4K3", "e2", "d3", false},
		{"diagonal capture", "4k3/8/8/8/8/3n4/4P3/4K3", "e2", "d3", true},
		{"diagonal onto own piece", "4k3/8/8/8/8/3N4/4P3/4K3", "e2", "d3", false},
		{"backwards", "4k3/8/8/8/8/4P3/8/4K3", "e3", "e2", false},
		{"sideways", "4k3/8/8/8/8/4P3/8/4K3", "e3", "f3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.placement)
			assert.Equal(t, tt.want, b.IsLegal(pieceAt(t, b, tt.from), sq(tt.to)))
		})
	}
}

func TestBlackPawnAdvances(t *testing.T) {
	b := boardFrom(t, "4k3/3p4/8/8/8/8/8/4K2R")
	require.True(t, b.ApplyMove(pieceAt(t, b, "h1"), sq("h2")))

	pawn := pieceAt(t, b, "d7")
	assert.True(t, b.IsLegal(pawn, sq("d5")))
	assert.True(t, b.IsLegal(pawn, sq("d6")))
	assert.False(t, b.IsLegal(pawn, sq("d8")))
	assert.False(t, b.IsLegal(pawn, sq("c6")))
}

func TestCaptures(t *testing.T) {
	b := boardFrom(t, "4k3/8/8/8/r7/8/8/R3K3")
	rook := pieceAt(t, b, "a1")

	require.True(t, b.ApplyMove(rook, sq("a4")))
	captor := pieceAt(t, b, "a4")
	assert.Equal(t, White, captor.Color)
	pos := b.Position()
	assert.Len(t, pos.Pieces(), 3)
}

func TestOwnPieceCannotBeCaptured(t *testing.T) {
	b := NewStartingBoard()
	assert.False(t, b.IsLegal(pieceAt(t, b, "d1"), sq("d2")))
	assert.False(t, b.IsLegal(pieceAt(t, b, "b1"), sq("d2")))
}

func TestSlidersAreBlocked(t *testing.T) {
	b := NewStartingBoard()
	assert.False(t, b.IsLegal(pieceAt(t, b, "a1"), sq("a3")))
	assert.False(t, b.IsLegal(pieceAt(t, b, "c1"), sq("e3")))
	assert.False(t, b.IsLegal(pieceAt(t, b, "d1"), sq("d3")))
	assert.True(t, b.IsLegal(pieceAt(t, b, "b1"), sq("c3")), "knights jump")
}

func TestPathClear(t *testing.T) {
	b := boardFrom(t, "4k3/8/8/8/8/4p3/8/2B1K3")
	tests := []struct {
		from, to string
		want     bool
	}{
		{"c1", "d2", true},
		{"c1", "e3", true},
		{"c1", "f4", false},
		{"c1", "h6", false},
		{"c1", "a3", true},
		{"e1", "e3", true},
		{"e1", "e5", false},
		{"e5", "e1", false},
		{"a1", "d1", false},
		{"a1", "c1", true},
		{"e2", "e2", false},
		{"b1", "c3", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.PathClear(sq(tt.from), sq(tt.to)), "%s-%s", tt.from, tt.to)
	}
}

func TestPathClearChecksLastSquareOnDiagonal(t *testing.T) {
	b := boardFrom(t, "4k3/8/8/6p1/8/8/8/2B1K3")
	assert.False(t, b.PathClear(sq("c1"), sq("h6")))
	assert.True(t, b.PathClear(sq("c1"), sq("g5")))
	assert.False(t, b.IsLegal(pieceAt(t, b, "c1"), sq("h6")))
	assert.True(t, b.IsLegal(pieceAt(t, b, "c1"), sq("g5")))
}

func TestKingCannotStayInRookLine(t *testing.T) {
	b := boardFrom(t, "1r5k/8/8/8/8/8/8/K7")
	king := pieceAt(t, b, "a1")
	before := b.Position()

	assert.True(t, b.WouldBeInCheck(king, Square{File: 2, Rank: 1}))
	assert.False(t, b.ApplyMove(king, Square{File: 2, Rank: 1}))
	assert.Equal(t, before, b.Position())

	assert.False(t, b.WouldBeInCheck(king, Square{File: 1, Rank: 2}))
	assert.True(t, b.ApplyMove(king, Square{File: 1, Rank: 2}))
}

func TestPinnedPieceCannotMove(t *testing.T) {
	b := boardFrom(t, "4r2k/8/8/8/8/8/4B3/4K3")
	bishop := pieceAt(t, b, "e2")
	assert.False(t, b.IsLegal(bishop, sq("d3")))
	assert.Empty(t, b.LegalDestinations(bishop))
}

func TestBlockedSliderGivesNoCheck(t *testing.T) {
	b := boardFrom(t, "r6k/8/8/8/N7/P7/8/K7")
	assert.True(t, b.IsLegal(pieceAt(t, b, "a4"), sq("b6")))

	b = boardFrom(t, "r6k/8/8/8/N7/8/8/K7")
	assert.False(t, b.IsLegal(pieceAt(t, b, "a4"), sq("b6")))
}

func TestPawnAttacksOnlyDiagonally(t *testing.T) {
	b := boardFrom(t, "4k3/8/8/8/4p3/8/4K3/8")
	king := pieceAt(t, b, "e2")
	assert.True(t, b.IsLegal(king, sq("e3")), "square in front of a pawn is safe")
	assert.False(t, b.IsLegal(king, sq("d3")))
	assert.False(t, b.IsLegal(king, sq("f3")))
}

func TestKingsKeepApart(t *testing.T) {
	b := boardFrom(t, "8/8/8/4k3/8/4K3/8/8")
	king := pieceAt(t, b, "e3")
	assert.False(t, b.IsLegal(king, sq("e4")))
	assert.False(t, b.IsLegal(king, sq("d4")))
	assert.True(t, b.IsLegal(king, sq("e2")))
}

func TestEscapingCheck(t *testing.T) {
	b := boardFrom(t, "4r2k/8/8/8/8/8/3N4/R3K3")
	// Only moves that answer the check are legal.
	assert.False(t, b.IsLegal(pieceAt(t, b, "a1"), sq("a2")))
	assert.False(t, b.IsLegal(pieceAt(t, b, "d2"), sq("b3")))
	assert.True(t, b.IsLegal(pieceAt(t, b, "d2"), sq("e4")), "block")
	assert.True(t, b.IsLegal(pieceAt(t, b, "e1"), sq("f1")), "step aside")
	assert.False(t, b.IsLegal(pieceAt(t, b, "e1"), sq("e2")), "stay on the file")
}

func TestPromotion(t *testing.T) {
	t.Run("queen by default", func(t *testing.T) {
		b := boardFrom(t, "1n5k/P7/8/8/8/8/8/K7")
		require.True(t, b.ApplyMove(pieceAt(t, b, "a7"), sq("a8")))

		p := pieceAt(t, b, "a8")
		assert.Equal(t, Piece{Type: Queen, Color: White, Square: sq("a8")}, p)
		pos := b.Position()
		for _, other := range pos.Pieces() {
			assert.NotEqual(t, Pawn, other.Type)
		}
	})

	t.Run("capturing onto last rank", func(t *testing.T) {
		b := boardFrom(t, "1n5k/P7/8/8/8/8/8/K7")
		require.True(t, b.ApplyMove(pieceAt(t, b, "a7"), sq("b8")))
		assert.Equal(t, Piece{Type: Queen, Color: White, Square: sq("b8")}, pieceAt(t, b, "b8"))
		pos := b.Position()
		assert.Len(t, pos.Pieces(), 3)
	})

	t.Run("explicit kind", func(t *testing.T) {
		b := boardFrom(t, "1n5k/P7/8/8/8/8/8/K7")
		require.True(t, b.ApplyMoveWithPromotion(pieceAt(t, b, "a7"), sq("a8"), Knight))
		assert.Equal(t, Knight, pieceAt(t, b, "a8").Type)
	})

	t.Run("invalid kind", func(t *testing.T) {
		b := boardFrom(t, "1n5k/P7/8/8/8/8/8/K7")
		before := b.Position()
		assert.False(t, b.ApplyMoveWithPromotion(pieceAt(t, b, "a7"), sq("a8"), King))
		assert.Equal(t, before, b.Position())
	})

	t.Run("board default", func(t *testing.T) {
		b := boardFrom(t, "1n5k/P7/8/8/8/8/8/K7")
		require.Error(t, b.SetPromotion(Pawn))
		require.NoError(t, b.SetPromotion(Rook))
		require.True(t, b.ApplyMove(pieceAt(t, b, "a7"), sq("a8")))
		assert.Equal(t, Rook, pieceAt(t, b, "a8").Type)
	})

	t.Run("black", func(t *testing.T) {
		b := boardFrom(t, "k7/8/8/8/8/8/p7/7K")
		require.True(t, b.ApplyMove(pieceAt(t, b, "h1"), sq("h2")))
		require.True(t, b.ApplyMove(pieceAt(t, b, "a2"), sq("a1")))
		assert.Equal(t, Piece{Type: Queen, Color: Black, Square: sq("a1")}, pieceAt(t, b, "a1"))
	})
}

func TestStalePieceIsRejected(t *testing.T) {
	b := NewStartingBoard()
	pawn := pieceAt(t, b, "e2")
	require.True(t, b.ApplyMove(pawn, sq("e4")))
	require.True(t, b.ApplyMove(pieceAt(t, b, "e7"), sq("e5")))

	// pawn still claims e2.
	assert.False(t, b.IsLegal(pawn, sq("e3")))
	assert.False(t, b.IsLegal(Piece{Type: Queen, Color: White, Square: sq("e2")}, sq("e3")))
}

func TestRedrawAfterEveryAttempt(t *testing.T) {
	b := NewStartingBoard()
	var snaps []Snapshot
	b.OnRedraw(func(s Snapshot) { snaps = append(snaps, s) })

	b.ApplyMove(pieceAt(t, b, "e2"), sq("e5"))
	b.ApplyMove(pieceAt(t, b, "e2"), sq("e4"))
	b.ApplyMoveWithPromotion(pieceAt(t, b, "e7"), sq("e5"), Pawn)

	require.Len(t, snaps, 3)
	assert.Equal(t, White, snaps[0].Turn)
	assert.Equal(t, StartingPlacement, snaps[0].Placement)
	assert.Equal(t, Black, snaps[1].Turn)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", snaps[1].Placement)
	assert.Len(t, snaps[1].Pieces, 32)
	assert.Equal(t, Black, snaps[2].Turn)
}

func TestMissingKingPanics(t *testing.T) {
	b := boardFrom(t, "k7/8/8/8/8/8/8/R7")
	assert.Panics(t, func() {
		b.IsLegal(pieceAt(t, b, "a1"), sq("a2"))
	})
}

func TestLegalDestinations(t *testing.T) {
	b := NewStartingBoard()
	assert.Equal(t, []Square{sq("a3"), sq("c3")}, b.LegalDestinations(pieceAt(t, b, "b1")))
	assert.Equal(t, []Square{sq("e4"), sq("e3")}, b.LegalDestinations(pieceAt(t, b, "e2")))
	assert.Empty(t, b.LegalDestinations(pieceAt(t, b, "a1")))
	assert.Empty(t, b.LegalDestinations(pieceAt(t, b, "b8")), "not black's turn")
}
