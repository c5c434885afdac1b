package tile

import "fmt"

// Color is one of the two tile colors
type Color string

// color constants
const (
	Black Color = "black"
	White Color = "white"
)

// Other returns the opposite color
func (c Color) Other() Color {
	if c == Black {
		return White
	}

	return Black
}

// Valid returns true if the color is black or white
func (c Color) Valid() bool {
	return c == Black || c == White
}

// Tile is an individual numbered or wild tile
// A wild tile has no value. Revealed may only ever go from false to true.
type Tile struct {
	ID       int   `json:"id"`
	Color    Color `json:"color"`
	Value    int   `json:"value"`
	Wild     bool  `json:"wild"`
	Revealed bool  `json:"revealed"`
}

func (t *Tile) String() string {
	if t.Wild {
		return fmt.Sprintf("%s-wild", t.Color)
	}

	return fmt.Sprintf("%s-%d", t.Color, t.Value)
}

// Reveal flips the tile face-up. A revealed tile can never be hidden again.
func (t *Tile) Reveal() {
	t.Revealed = true
}
