package davinci

import (
	"sort"

	"gamehall-server/pkg/tile"
)

// tileLess orders two numbered tiles: ascending value, then color priority.
// Wild tiles have no natural position and must never be passed here.
func tileLess(a, b *tile.Tile, order ColorOrder) bool {
	if a.Value != b.Value {
		return a.Value < b.Value
	}

	first := tile.Black
	if order == WhiteFirst {
		first = tile.White
	}

	return a.Color == first && b.Color != first
}

// insertionIndex returns the hand position a numbered tile must occupy.
// Only numbered tiles participate in the ordering; wilds already in the hand
// keep their owner-chosen positions. The new tile lands at the first position
// held by a numbered tile that sorts strictly after it, so a tile equal to
// one already held goes behind it. If no numbered tile sorts after it, it
// lands just after the last numbered tile, ahead of any trailing wilds.
func insertionIndex(hand []*tile.Tile, t *tile.Tile, order ColorOrder) int {
	lastNumeric := -1
	for i, member := range hand {
		if member.Wild {
			continue
		}

		if tileLess(t, member, order) {
			return i
		}

		lastNumeric = i
	}

	return lastNumeric + 1
}

// insertTile places t at index, shifting the remainder of the hand right
func insertTile(hand []*tile.Tile, t *tile.Tile, index int) []*tile.Tile {
	if index < 0 {
		index = 0
	} else if index > len(hand) {
		index = len(hand)
	}

	hand = append(hand, nil)
	copy(hand[index+1:], hand[index:])
	hand[index] = t

	return hand
}

// sortHand orders a freshly dealt hand of numbered tiles
func sortHand(hand []*tile.Tile, order ColorOrder) {
	sort.SliceStable(hand, func(i, j int) bool {
		return tileLess(hand[i], hand[j], order)
	})
}
