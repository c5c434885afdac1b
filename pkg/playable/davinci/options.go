package davinci

import (
	"time"

	"gamehall-server/pkg/tile"
)

// ColorOrder decides which color sorts first when two tiles share a value
type ColorOrder string

// color order constants
const (
	BlackFirst ColorOrder = "black-first"
	WhiteFirst ColorOrder = "white-first"
)

// Options configures a game of Da Vinci
type Options struct {
	// Stake is the amount each player puts on the line
	Stake int

	// Values is the number of numbered tiles per color
	Values int

	// ColorOrder breaks ties between equal values
	ColorOrder ColorOrder

	// PaidRanks is how many of the top finishers win their stake
	PaidRanks int

	// TurnDuration is how long a player has to act in a timed phase.
	// Zero or negative disables turn timers.
	TurnDuration time.Duration

	// Seed seeds the shuffle and all random choices. Leave as 0 for a
	// time-based seed.
	Seed int64
}

// DefaultOptions returns the default options for Da Vinci
func DefaultOptions() Options {
	return Options{
		Stake:        100,
		Values:       tile.DefaultValues,
		ColorOrder:   BlackFirst,
		PaidRanks:    2,
		TurnDuration: time.Second * 45,
	}
}
