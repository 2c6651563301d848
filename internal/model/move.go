package model

// MoveRequest asks to move the piece on From to To. Promotion is optional;
// when empty the board's default promotion kind applies.
type MoveRequest struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// DropRequest is a drag gesture that ended at pixel (X, Y) on a board drawn
// with square cells of CellSize pixels, white at the bottom.
type DropRequest struct {
	From      Square    `json:"from"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CellSize  float64   `json:"cellSize"`
	Promotion PieceType `json:"promotion,omitempty"`
}
