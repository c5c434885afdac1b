package davinci

// OnDisconnect handles a player's connection going away mid-game. A live
// seat is treated as abandoned: knocked out, ranked, and settled. Seats
// already out of the running only get their connection flag updated.
func (g *Game) OnDisconnect(stableID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.idToSeat[stableID]
	if !ok {
		return
	}

	seat.connected = false

	if g.done || seat.finishRank > 0 {
		return
	}

	g.logger.WithField("player", stableID).Info("player disconnected mid-game")
	g.sendLogMessages(newLogMessage(stableID, "{} disconnected and is out of the game"))
	g.forceEliminate(seat)
	g.signalStateChanged()
}

// OnReconnect handles a new connection for a seat that already exists in the
// game. For a seat that has been ranked and settled this is a pure relink
// with no gameplay effect. A reconnect that finds the seat still live means
// the room and the game disagree about the departure; the seat is reconciled
// the same way as any other abandonment.
func (g *Game) OnReconnect(stableID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.idToSeat[stableID]
	if !ok {
		return
	}

	seat.connected = true

	if g.done || seat.finishRank > 0 {
		return
	}

	g.logger.WithField("player", stableID).Info("stale reconnect for a live seat")
	g.sendLogMessages(newLogMessage(stableID, "{} abandoned the game"))
	g.forceEliminate(seat)
	g.signalStateChanged()
}
