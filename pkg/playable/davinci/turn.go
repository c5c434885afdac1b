package davinci

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/tile"
)

// timerToken identifies the exact turn a timer was armed for. A fired timer
// whose token no longer matches the live turn is stale and must do nothing.
type timerToken struct {
	fencing  uint64
	phase    Phase
	stableID string
}

// setPhase moves the game into a new phase. Any outstanding turn timer is
// invalidated; timed phases arm a fresh one against the active seat.
func (g *Game) setPhase(p Phase) {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}

	g.fencing++
	g.phase = p
	g.turnStarted = time.Time{}
	g.turnDeadline = time.Time{}

	if !p.timed() || g.options.TurnDuration <= 0 {
		return
	}

	seat := g.activeSeat()
	if seat == nil {
		return
	}

	g.turnStarted = time.Now()
	g.turnDeadline = g.turnStarted.Add(g.options.TurnDuration)

	token := timerToken{
		fencing:  g.fencing,
		phase:    p,
		stableID: seat.StableID,
	}

	g.turnTimer = time.AfterFunc(g.options.TurnDuration, func() {
		g.onTurnTimeout(token)
	})
}

func (g *Game) onTurnTimeout(token timerToken) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.timeout(token)
}

// timeout applies the phase's timeout policy, provided the token still
// matches the live turn. Callers must hold the mutex.
func (g *Game) timeout(token timerToken) {
	seat := g.activeSeat()
	if g.done || token.fencing != g.fencing || token.phase != g.phase || seat == nil || seat.StableID != token.stableID {
		g.logger.WithFields(logrus.Fields{
			"tokenFencing": token.fencing,
			"tokenPhase":   token.phase.String(),
			"tokenPlayer":  token.stableID,
			"phase":        g.phase.String(),
		}).Debug("ignoring stale turn timer")
		return
	}

	switch g.phase {
	case PhaseDrawing:
		g.sendLogMessages(newLogMessage(seat.StableID, "{} ran out of time and was dealt a tile"))
		g.forceDraw(seat)
	case PhasePlaceWild:
		g.sendLogMessages(newLogMessage(seat.StableID, "{} ran out of time; the wild tile goes at the end"))
		g.finishWildPlacement(seat, len(seat.hand))
	case PhaseGuessing, PhasePostSuccessGuess:
		g.sendLogMessages(newLogMessage(seat.StableID, "{} ran out of time and forfeits the turn"))
		g.advanceTurn()
	}

	g.signalStateChanged()
}

// advanceTurn hands the turn to the next seat still in the running and opens
// its first phase. With both piles empty the draw is skipped.
func (g *Game) advanceTurn() {
	g.resolvePendingGuess()

	if g.done || g.unrankedCount() == 0 {
		return
	}

	n := len(g.seats)
	for i := 1; i <= n; i++ {
		idx := (g.activeIndex + i + n) % n
		if g.seats[idx].finishRank > 0 {
			continue
		}

		g.activeIndex = idx
		break
	}

	seat := g.activeSeat()
	seat.lastPlacedIndex = -1

	if g.piles.IsEmpty() {
		g.setPhase(PhaseGuessing)
	} else {
		g.setPhase(PhaseDrawing)
	}
}

// drawTile draws from the requested pile for the active seat. Numbered tiles
// are placed automatically; a wild waits for the owner to position it.
func (g *Game) drawTile(seat *Seat, color tile.Color) error {
	if !color.Valid() {
		return fmt.Errorf("invalid color: %s", color)
	}

	t, err := g.piles.Draw(color)
	if err != nil {
		return err
	}

	if t.Wild {
		g.pendingWild = t
		g.sendLogMessages(newLogMessage(seat.StableID, "{} drew a wild tile"))
		g.setPhase(PhasePlaceWild)
		return nil
	}

	g.placeNumbered(seat, t)
	g.sendLogMessages(newLogMessage(seat.StableID, "{} drew a %s tile", t.Color))
	g.setPhase(PhaseGuessing)

	return nil
}

// forceDraw draws a tile on behalf of a timed-out seat. A wild is appended
// at the end of the hand rather than waiting on the owner.
func (g *Game) forceDraw(seat *Seat) {
	colors := g.piles.NonEmptyColors()
	if len(colors) == 0 {
		g.setPhase(PhaseGuessing)
		return
	}

	t, err := g.piles.Draw(colors[g.rnd.Intn(len(colors))])
	if err != nil {
		g.setPhase(PhaseGuessing)
		return
	}

	if t.Wild {
		seat.hand = append(seat.hand, t)
		seat.lastPlacedIndex = len(seat.hand) - 1
	} else {
		g.placeNumbered(seat, t)
	}

	g.setPhase(PhaseGuessing)
}

func (g *Game) placeNumbered(seat *Seat, t *tile.Tile) {
	idx := insertionIndex(seat.hand, t, g.options.ColorOrder)
	seat.hand = insertTile(seat.hand, t, idx)
	seat.lastPlacedIndex = idx
}

// placeWild positions the pending wild at the owner-chosen index, clamped to
// the hand bounds
func (g *Game) placeWild(seat *Seat, index int) {
	g.finishWildPlacement(seat, index)
	g.sendLogMessages(newLogMessage(seat.StableID, "{} placed the wild tile"))
}

func (g *Game) finishWildPlacement(seat *Seat, index int) {
	if index < 0 {
		index = 0
	} else if index > len(seat.hand) {
		index = len(seat.hand)
	}

	seat.hand = insertTile(seat.hand, g.pendingWild, index)
	seat.lastPlacedIndex = index
	g.pendingWild = nil
	g.setPhase(PhaseGuessing)
}
