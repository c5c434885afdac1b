package davinci

import "gamehall-server/pkg/tile"

// Seat is a player's position in the game
// StableID is the player's durable identity. Connections come and go; the
// seat does not.
type Seat struct {
	StableID  string
	SeatIndex int

	hand    []*tile.Tile
	stake   int
	balance int

	// finishRank is 0 while the player is still in the running
	finishRank int

	// settled flips to true exactly once, when the seat's payout is applied
	settled bool

	connected bool

	// lastPlacedIndex is the hand position of the most recently placed
	// tile, or -1
	lastPlacedIndex int
}

func newSeat(stableID string, seatIndex, stake, balance int) *Seat {
	return &Seat{
		StableID:        stableID,
		SeatIndex:       seatIndex,
		hand:            make([]*tile.Tile, 0),
		stake:           stake,
		balance:         balance,
		connected:       true,
		lastPlacedIndex: -1,
	}
}

// Hand returns the seat's tiles in display order
func (s *Seat) Hand() []*tile.Tile {
	return s.hand
}

// unrevealedIndexes returns the hand positions of face-down tiles
func (s *Seat) unrevealedIndexes() []int {
	indexes := make([]int, 0, len(s.hand))
	for i, t := range s.hand {
		if !t.Revealed {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

func (s *Seat) unrevealedCount() int {
	return len(s.unrevealedIndexes())
}

// eliminated returns true once every tile in the hand is face-up
func (s *Seat) eliminated() bool {
	return s.unrevealedCount() == 0
}

// revealAll flips the entire hand face-up
func (s *Seat) revealAll() {
	for _, t := range s.hand {
		t.Reveal()
	}
}
