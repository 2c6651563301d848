package model

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// StartingPlacement is the standard opening layout.
const StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// PlacementError describes why a placement string was rejected.
type PlacementError struct {
	Index  int
	Char   rune
	Reason string
}

func (e *PlacementError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid placement: %s", e.Reason)
	}
	if e.Char == 0 {
		return fmt.Sprintf("invalid placement at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid placement at index %d (%q): %s", e.Index, e.Char, e.Reason)
}

func placementError(i int, c rune, reason string) error {
	return errors.WithStack(&PlacementError{Index: i, Char: c, Reason: reason})
}

// ParsePlacement reads a rank-by-rank piece placement such as StartingPlacement.
// Ranks are listed from 8 down to 1 and separated by '/'; within a rank, digits
// skip empty files and letters place pieces, uppercase for white. The placement
// carries no side to move, so the result always has white to move.
func ParsePlacement(placement string) (Position, error) {
	pos := NewPosition()
	rank, file := 8, 1
	for i, c := range placement {
		if c == '/' {
			if file > 9 {
				return Position{}, placementError(i, c, "rank covers more than 8 files")
			}
			rank--
			file = 1
			continue
		}
		if file > 8 {
			return Position{}, placementError(i, c, "too many files in rank")
		}
		if rank < 1 {
			return Position{}, placementError(i, c, "too many ranks")
		}
		switch {
		case c >= '1' && c <= '8':
			file += int(c - '0')
			continue
		case c >= '0' && c <= '9':
			return Position{}, placementError(i, c, "empty-square count out of range")
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return Position{}, placementError(i, c, "unexpected character")
		}

		color := White
		letter := byte(c)
		if c >= 'a' {
			color = Black
		} else {
			letter += 'a' - 'A'
		}
		typ, ok := pieceTypeFromLetter(letter)
		if !ok {
			return Position{}, placementError(i, c, "unknown piece letter")
		}
		pos.Put(Piece{Type: typ, Color: color, Square: Square{File: file, Rank: rank}})
		file++
	}
	if file > 9 {
		return Position{}, placementError(len(placement), 0, "rank covers more than 8 files")
	}
	return pos, nil
}

// CheckKings reports a *PlacementError unless each side has exactly one king.
// Positions that fail it must not reach a Board.
func (pos *Position) CheckKings() error {
	kings := map[Color]int{}
	for _, p := range pos.Pieces() {
		if p.Type == King {
			kings[p.Color]++
		}
	}
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return errors.WithStack(&PlacementError{
				Index:  -1,
				Reason: fmt.Sprintf("%s needs exactly one king, found %d", c, kings[c]),
			})
		}
	}
	return nil
}

// NewStartingPosition returns the standard opening position. A failure here
// means the parser is broken, so it panics.
func NewStartingPosition() Position {
	pos, err := ParsePlacement(StartingPlacement)
	if err != nil {
		panic(fmt.Sprintf("built-in starting placement does not parse: %v", err))
	}
	return pos
}

// Placement encodes the position in the format ParsePlacement reads.
func (pos *Position) Placement() string {
	var sb strings.Builder
	for rank := 8; rank >= 1; rank-- {
		empty := 0
		for file := 1; file <= 8; file++ {
			p := pos.squares[file-1][rank-1]
			if p.empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := p.Type.letter()
			if p.Color == White {
				letter -= 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
