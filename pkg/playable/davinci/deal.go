package davinci

import "gamehall-server/pkg/tile"

// handSize returns how many tiles each player starts with
func handSize(playerCount int) int {
	if playerCount == 4 {
		return 3
	}

	return 4
}

// dealInitialHands deals each seat its starting tiles. Each tile comes from
// a randomly chosen non-empty pile. Wilds drawn during the deal are set
// aside, returned to their piles afterwards, and the piles reshuffled, so no
// starting hand contains a wild. Hands are sorted when the deal completes.
func (g *Game) dealInitialHands() {
	count := handSize(len(g.seats))
	buffered := make([]*tile.Tile, 0)

	for _, seat := range g.seats {
		for len(seat.hand) < count {
			t, err := g.piles.Draw(g.randomColor())
			if err != nil {
				// NewGame guarantees enough numbered tiles
				panic("ran out of tiles during the initial deal")
			}

			if t.Wild {
				buffered = append(buffered, t)
				continue
			}

			seat.hand = append(seat.hand, t)
		}
	}

	for _, t := range buffered {
		g.piles.Pile(t.Color).Add(t)
	}

	if len(buffered) > 0 {
		g.piles.Shuffle(g.rnd.Int63())
	}

	for _, seat := range g.seats {
		sortHand(seat.hand, g.options.ColorOrder)
	}
}

// randomColor picks uniformly among the colors that still have tiles
func (g *Game) randomColor() tile.Color {
	colors := g.piles.NonEmptyColors()
	if len(colors) == 0 {
		return tile.Black
	}

	return colors[g.rnd.Intn(len(colors))]
}
