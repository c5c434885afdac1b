package davinci

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gamehall-server/pkg/tile"
)

func nt(color tile.Color, value int) *tile.Tile {
	return &tile.Tile{Color: color, Value: value}
}

func wild(color tile.Color) *tile.Tile {
	return &tile.Tile{Color: color, Wild: true}
}

func TestTileLess(t *testing.T) {
	a := assert.New(t)

	a.True(tileLess(nt(tile.Black, 3), nt(tile.White, 7), BlackFirst))
	a.False(tileLess(nt(tile.White, 7), nt(tile.Black, 3), BlackFirst))

	// equal values break on color priority
	a.True(tileLess(nt(tile.Black, 5), nt(tile.White, 5), BlackFirst))
	a.False(tileLess(nt(tile.White, 5), nt(tile.Black, 5), BlackFirst))
	a.True(tileLess(nt(tile.White, 5), nt(tile.Black, 5), WhiteFirst))
	a.False(tileLess(nt(tile.Black, 5), nt(tile.Black, 5), BlackFirst))
}

func TestInsertionIndex(t *testing.T) {
	a := assert.New(t)

	// empty hand
	a.Equal(0, insertionIndex(nil, nt(tile.Black, 5), BlackFirst))

	hand := []*tile.Tile{nt(tile.Black, 1), nt(tile.White, 4), nt(tile.Black, 9)}
	a.Equal(0, insertionIndex(hand, nt(tile.Black, 0), BlackFirst))
	a.Equal(1, insertionIndex(hand, nt(tile.Black, 3), BlackFirst))
	a.Equal(2, insertionIndex(hand, nt(tile.White, 6), BlackFirst))
	a.Equal(3, insertionIndex(hand, nt(tile.White, 11), BlackFirst))

	// equal value: black sorts first under BlackFirst
	a.Equal(1, insertionIndex(hand, nt(tile.Black, 4), BlackFirst))
	a.Equal(2, insertionIndex(hand, nt(tile.White, 4), BlackFirst))

	// an exact duplicate lands behind the tile already held
	a.Equal(1, insertionIndex(hand, nt(tile.Black, 1), BlackFirst))
}

func TestInsertionIndex_skipsWilds(t *testing.T) {
	a := assert.New(t)

	// wilds hold their positions and never count in the ordering
	hand := []*tile.Tile{wild(tile.Black), nt(tile.Black, 2), wild(tile.White), nt(tile.White, 8)}
	a.Equal(1, insertionIndex(hand, nt(tile.Black, 0), BlackFirst))
	a.Equal(3, insertionIndex(hand, nt(tile.Black, 5), BlackFirst))

	// greater than every numbered tile lands after the last numbered tile,
	// ahead of trailing wilds
	hand = []*tile.Tile{nt(tile.Black, 2), nt(tile.White, 8), wild(tile.White)}
	a.Equal(2, insertionIndex(hand, nt(tile.Black, 10), BlackFirst))

	// all-wild hand
	hand = []*tile.Tile{wild(tile.Black), wild(tile.White)}
	a.Equal(0, insertionIndex(hand, nt(tile.Black, 5), BlackFirst))
}

func TestInsertTile(t *testing.T) {
	a := assert.New(t)

	hand := []*tile.Tile{nt(tile.Black, 1), nt(tile.Black, 2)}
	hand = insertTile(hand, nt(tile.Black, 0), 0)
	a.Equal(0, hand[0].Value)
	a.Equal(3, len(hand))

	// out-of-range indexes clamp
	hand = insertTile(hand, nt(tile.Black, 9), 100)
	a.Equal(9, hand[3].Value)

	hand = insertTile(hand, nt(tile.Black, 11), -5)
	a.Equal(11, hand[0].Value)
}

func TestSortHand(t *testing.T) {
	hand := []*tile.Tile{nt(tile.White, 5), nt(tile.Black, 2), nt(tile.Black, 5)}
	sortHand(hand, BlackFirst)

	assert.Equal(t, 2, hand[0].Value)
	assert.Equal(t, tile.Black, hand[1].Color)
	assert.Equal(t, tile.White, hand[2].Color)
}
