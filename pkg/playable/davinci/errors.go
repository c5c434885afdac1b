package davinci

import "errors"

// errors that can be returned to the acting client
var (
	ErrGameIsOver          = errors.New("the game is over")
	ErrPlayerNotFound      = errors.New("player is not in the game")
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrPlayerEliminated    = errors.New("you have been eliminated")
	ErrInvalidTargetPlayer = errors.New("target player is not in the game")
	ErrCannotGuessSelf     = errors.New("you cannot guess your own tile")
	ErrInvalidTileIndex    = errors.New("tile index is out of range")
	ErrTileAlreadyRevealed = errors.New("tile is already revealed")
)

// PlayerCountError happens when you have too few or too many players
type PlayerCountError struct {
	Min int
	Max int
	Got int
}

func (p PlayerCountError) Error() string {
	if p.Got < p.Min {
		return "you must have at least two players"
	}

	return "you cannot have more than four players"
}
