package tile

import (
	"errors"
	"math/rand"
	"time"
)

// DefaultValues is the number of numbered tiles per color.
// Each color additionally carries exactly one wild tile.
const DefaultValues = 12

// ErrNoTiles is an error when both piles are exhausted
var ErrNoTiles = errors.New("no tiles left in either pile")

// Piles holds the undrawn stacks for both colors
type Piles struct {
	Black *Pile
	White *Pile
}

// NewPiles builds an unshuffled pair of piles with one tile per value in
// [0, values) plus one wild tile per color. Tile IDs are unique across the set.
func NewPiles(values int) *Piles {
	if values <= 0 {
		values = DefaultValues
	}

	id := 0
	build := func(color Color) *Pile {
		tiles := make([]*Tile, 0, values+1)
		for v := 0; v < values; v++ {
			tiles = append(tiles, &Tile{ID: id, Color: color, Value: v})
			id++
		}

		tiles = append(tiles, &Tile{ID: id, Color: color, Wild: true})
		id++

		return NewPile(tiles)
	}

	return &Piles{
		Black: build(Black),
		White: build(White),
	}
}

// Pile returns the pile for the given color
func (p *Piles) Pile(c Color) *Pile {
	if c == White {
		return p.White
	}

	return p.Black
}

// Shuffle shuffles both piles. Each pile gets its own derived seed; sharing
// one would put both colors in the same order and leak hidden tiles.
func (p *Piles) Shuffle(seed int64) {
	if seed < 0 {
		panic("seed cannot be < 0")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rnd := rand.New(rand.NewSource(seed))
	p.Black.Shuffle(1 + rnd.Int63n(1<<62))
	p.White.Shuffle(1 + rnd.Int63n(1<<62))
}

// Draw pops the top tile of the requested color's pile. If that pile is
// empty, it falls back to the other color. If both are empty, ErrNoTiles
// is returned.
func (p *Piles) Draw(c Color) (*Tile, error) {
	t, err := p.Pile(c).Draw()
	if err == nil {
		return t, nil
	}

	t, err = p.Pile(c.Other()).Draw()
	if err != nil {
		return nil, ErrNoTiles
	}

	return t, nil
}

// NonEmptyColors returns the colors that still have tiles to draw
func (p *Piles) NonEmptyColors() []Color {
	colors := make([]Color, 0, 2)
	if !p.Black.IsEmpty() {
		colors = append(colors, Black)
	}

	if !p.White.IsEmpty() {
		colors = append(colors, White)
	}

	return colors
}

// IsEmpty returns true if both piles are exhausted
func (p *Piles) IsEmpty() bool {
	return p.Black.IsEmpty() && p.White.IsEmpty()
}

// Remaining returns the total number of undrawn tiles
func (p *Piles) Remaining() int {
	return p.Black.Remaining() + p.White.Remaining()
}
