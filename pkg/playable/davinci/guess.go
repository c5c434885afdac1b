package davinci

import "gamehall-server/pkg/playable"

// guessResult is the public record of a guess. On a failed guess the target
// tile stays hidden, so its value never appears here; only the guesser's
// penalty reveal does.
type guessResult struct {
	Guesser   string `json:"guesser"`
	Target    string `json:"target"`
	TileIndex int    `json:"tileIndex"`
	Value     int    `json:"value"`
	Correct   bool   `json:"correct"`

	// RevealedValue and RevealedWild describe the target tile, success only
	RevealedValue *int `json:"revealedValue,omitempty"`
	RevealedWild  bool `json:"revealedWild,omitempty"`

	// PenaltyIndex is the guesser's hand position revealed on failure, or -1
	PenaltyIndex int       `json:"penaltyIndex"`
	PenaltyTile  *TileView `json:"penaltyTile,omitempty"`
}

// guess resolves a guess by the active seat against a hidden tile. The
// server decides correctness; clients only ever learn the outcome.
func (g *Game) guess(seat *Seat, targetID string, index, value int) error {
	target, ok := g.idToSeat[targetID]
	if !ok {
		return ErrInvalidTargetPlayer
	}

	if target == seat {
		return ErrCannotGuessSelf
	}

	if index < 0 || index >= len(target.hand) {
		return ErrInvalidTileIndex
	}

	t := target.hand[index]
	if t.Revealed {
		return ErrTileAlreadyRevealed
	}

	correct := value == WildGuessValue && t.Wild ||
		!t.Wild && value == t.Value

	result := &guessResult{
		Guesser:      seat.StableID,
		Target:       target.StableID,
		TileIndex:    index,
		Value:        value,
		Correct:      correct,
		PenaltyIndex: -1,
	}

	if correct {
		t.Reveal()
		if t.Wild {
			result.RevealedWild = true
		} else {
			v := t.Value
			result.RevealedValue = &v
		}

		g.sendLogMessages(newLogMessage(seat.StableID, "{} correctly called %s's tile %d", target.StableID, index))
	} else {
		if indexes := seat.unrevealedIndexes(); len(indexes) > 0 {
			pi := indexes[g.rnd.Intn(len(indexes))]
			seat.hand[pi].Reveal()
			result.PenaltyIndex = pi
			result.PenaltyTile = newTileView(seat.hand[pi], true)
		}

		g.sendLogMessages(newLogMessage(seat.StableID, "{} guessed wrong and reveals one of their own tiles"))
	}

	g.lastGuess = result
	g.setPhase(PhaseAnimatingGuess)
	g.notify("", &playable.Response{
		Key:   "guessAnimation",
		Value: g.Name(),
		Data:  result,
	})

	return nil
}

// processGuessOutcome runs once clients confirm the guess animation. It
// applies eliminations and decides where the turn goes next.
func (g *Game) processGuessOutcome() {
	g.setPhase(PhaseProcessing)

	result := g.lastGuess
	g.resolvePendingGuess()

	if g.done {
		return
	}

	if result != nil {
		if guesser := g.idToSeat[result.Guesser]; result.Correct && guesser.finishRank == 0 {
			g.setPhase(PhasePostSuccessGuess)
			return
		}
	}

	g.advanceTurn()
}

// resolvePendingGuess applies the eliminations an unconfirmed guess implies,
// target first so a guessed-out seat takes the worse rank. A seat with no
// unrevealed tiles must never stay unranked, no matter how the animation
// phase was cut short.
func (g *Game) resolvePendingGuess() {
	result := g.lastGuess
	if result == nil {
		return
	}

	g.lastGuess = nil

	for _, id := range []string{result.Target, result.Guesser} {
		if s := g.idToSeat[id]; s.finishRank == 0 && s.eliminated() {
			g.eliminate(s)
		}
	}
}
