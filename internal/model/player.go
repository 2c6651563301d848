package model

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) pieceColor() Color {
	return Color(c)
}
