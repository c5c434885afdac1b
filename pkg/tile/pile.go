package tile

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyPile is an error when Draw() is attempted and there are no more tiles
var ErrEmptyPile = errors.New("no tiles left in the pile")

// Pile is the undrawn stack of tiles for a single color
type Pile struct {
	tiles []*Tile
	seed  int64
	rng   *rand.Rand
}

// NewPile returns a pile containing the provided tiles, top of the stack last
func NewPile(tiles []*Tile) *Pile {
	p := &Pile{
		tiles: tiles,
		seed:  -1,
	}

	return p
}

// SetSeed will set the seed
// This should only be used by tests. Setting the seed is normally handled when you call Shuffle()
func (p *Pile) SetSeed(seed int64) {
	p.seed = seed
	p.rng = rand.New(rand.NewSource(seed))
}

// Shuffle will shuffle the pile
// You can manually specify the seed, or you can leave it as 0 for a time-based seed.
func (p *Pile) Shuffle(seed int64) {
	if seed < 0 {
		panic("seed cannot be < 0")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	p.SetSeed(seed)

	for j := len(p.tiles) - 1; j > 0; j-- {
		i := p.rng.Intn(j + 1)

		p.tiles[i], p.tiles[j] = p.tiles[j], p.tiles[i]
	}
}

// Draw pops the top tile of the pile
// If there are no more tiles, an ErrEmptyPile is returned along with a nil tile.
func (p *Pile) Draw() (*Tile, error) {
	if len(p.tiles) == 0 {
		return nil, ErrEmptyPile
	}

	t := p.tiles[len(p.tiles)-1]
	p.tiles = p.tiles[:len(p.tiles)-1]

	return t, nil
}

// Add returns tiles to the pile
// The caller is expected to Shuffle() afterwards if ordering must not be predictable.
func (p *Pile) Add(tiles ...*Tile) {
	p.tiles = append(p.tiles, tiles...)
}

// Remaining returns the number of tiles left in the pile
func (p *Pile) Remaining() int {
	return len(p.tiles)
}

// IsEmpty returns true if there are no tiles left
func (p *Pile) IsEmpty() bool {
	return len(p.tiles) == 0
}

// Tiles returns the underlying tiles. Intended for conservation checks in tests.
func (p *Pile) Tiles() []*Tile {
	return p.tiles
}
