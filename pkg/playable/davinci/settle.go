package davinci

import "gamehall-server/pkg/playable"

// SettlementResult is the payout applied to a single seat
type SettlementResult struct {
	PlayerID   string `json:"playerId"`
	Rank       int    `json:"rank"`
	Delta      int    `json:"delta"`
	NewBalance int    `json:"newBalance"`
}

// eliminate knocks a seat out of the game. The rank is the number of seats
// still unranked at this moment, so the first player out finishes last. The
// seat's whole hand goes face-up and the payout is settled immediately.
func (g *Game) eliminate(seat *Seat) {
	if seat.finishRank > 0 {
		return
	}

	seat.finishRank = g.unrankedCount()
	seat.revealAll()

	g.sendLogMessages(newLogMessage(seat.StableID, "{} is out of the game in position %d", seat.finishRank))
	g.notify("", &playable.Response{
		Key:   "playerEliminated",
		Value: g.Name(),
		Data: map[string]interface{}{
			"playerId": seat.StableID,
			"rank":     seat.finishRank,
		},
	})

	g.settleSeat(seat)

	if g.unrankedCount() <= 1 {
		g.finishGame()
	}
}

// settleSeat applies a seat's payout exactly once. Top finishers through
// PaidRanks win their stake; everyone else loses theirs. The durable balance
// write goes through the ledger and never blocks gameplay.
func (g *Game) settleSeat(seat *Seat) {
	if seat.settled {
		return
	}

	seat.settled = true

	delta := seat.stake
	if seat.finishRank > g.options.PaidRanks {
		delta = -seat.stake
	}

	seat.balance += delta

	result := &SettlementResult{
		PlayerID:   seat.StableID,
		Rank:       seat.finishRank,
		Delta:      delta,
		NewBalance: seat.balance,
	}
	g.settlements = append(g.settlements, result)

	if g.ledger != nil {
		g.ledger.ApplyDelta(seat.StableID, delta)
	}

	g.notify(seat.StableID, &playable.Response{
		Key:   "settlement",
		Value: g.Name(),
		Data:  result,
	})
}

// finishGame ends the game. Any remaining unranked seat is the winner and
// takes rank 1.
func (g *Game) finishGame() {
	for _, s := range g.seats {
		if s.finishRank == 0 {
			s.finishRank = 1
			s.revealAll()
			g.settleSeat(s)
		}

		if s.finishRank == 1 {
			g.winnerID = s.StableID
		}
	}

	g.setPhase(PhaseGameOver)
	g.done = true

	if g.winnerID != "" {
		g.sendLogMessages(newLogMessage(g.winnerID, "{} wins the game"))
	}

	g.notify("", &playable.Response{
		Key:   "gameEnded",
		Value: g.Name(),
		Data: map[string]interface{}{
			"winner":      g.winnerID,
			"settlements": g.settlements,
		},
	})
}

// forceEliminate handles a seat leaving mid-game, for any reason. The seat is
// never removed; it is knocked out and settled like any other elimination.
// If the departing seat held the turn, play moves on immediately.
func (g *Game) forceEliminate(seat *Seat) {
	if g.done || seat.finishRank > 0 {
		return
	}

	wasActive := g.activeSeat() == seat
	if wasActive && g.pendingWild != nil {
		seat.hand = append(seat.hand, g.pendingWild)
		g.pendingWild = nil
	}

	// a departure mid-animation must not drop the guess outcome; a seat
	// guessed out before the departure ranks below the departing one
	g.resolvePendingGuess()

	if !g.done && seat.finishRank == 0 {
		g.eliminate(seat)
	}

	if !g.done && wasActive {
		g.advanceTurn()
	}
}
