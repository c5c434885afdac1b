package davinci

// Phase represents the current phase of the game
type Phase int

const (
	// PhaseInit is before the initial deal
	PhaseInit Phase = iota
	// PhaseDrawing is when the active player must draw a tile
	PhaseDrawing
	// PhasePlaceWild is when the active player must position a drawn wild
	PhasePlaceWild
	// PhaseGuessing is when the active player must guess an opponent's tile
	PhaseGuessing
	// PhasePostSuccessGuess is when a correct guesser decides to press on or stop
	PhasePostSuccessGuess
	// PhaseAnimatingGuess is while clients play out the guess result
	PhaseAnimatingGuess
	// PhaseProcessing is while eliminations and payouts are resolved
	PhaseProcessing
	// PhaseGameOver is when the game has ended
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseDrawing:
		return "drawing"
	case PhasePlaceWild:
		return "placeWild"
	case PhaseGuessing:
		return "guessing"
	case PhasePostSuccessGuess:
		return "postSuccessGuess"
	case PhaseAnimatingGuess:
		return "animatingGuess"
	case PhaseProcessing:
		return "processing"
	case PhaseGameOver:
		return "gameOver"
	}

	return "unknown"
}

// timed returns true if the phase runs on the turn clock
func (p Phase) timed() bool {
	switch p {
	case PhaseDrawing, PhasePlaceWild, PhaseGuessing, PhasePostSuccessGuess:
		return true
	}

	return false
}
