package davinci

import (
	"time"

	"gamehall-server/pkg/playable"
	"gamehall-server/pkg/tile"
)

// TileView is a tile as a particular viewer may see it
// A hidden tile shows only its color; value and wildness stay server-side
// until the tile is revealed or the viewer owns it.
type TileView struct {
	Color    tile.Color `json:"color"`
	Value    *int       `json:"value,omitempty"`
	Wild     bool       `json:"wild"`
	Revealed bool       `json:"revealed"`
}

func newTileView(t *tile.Tile, visible bool) *TileView {
	view := &TileView{
		Color:    t.Color,
		Revealed: t.Revealed,
	}

	if visible || t.Revealed {
		if t.Wild {
			view.Wild = true
		} else {
			v := t.Value
			view.Value = &v
		}
	}

	return view
}

// SeatState is the per-seat portion of the game state
type SeatState struct {
	PlayerID        string      `json:"playerId"`
	SeatIndex       int         `json:"seatIndex"`
	Hand            []*TileView `json:"hand"`
	UnrevealedCount int         `json:"unrevealedCount"`
	FinishRank      int         `json:"finishRank"`
	Balance         int         `json:"balance"`
	Connected       bool        `json:"connected"`
	LastPlacedIndex int         `json:"lastPlacedIndex"`
}

// GameState is the game as seen by one viewer
type GameState struct {
	Seats          []*SeatState        `json:"seats"`
	Phase          string              `json:"phase"`
	ActivePlayerID string              `json:"activePlayerId,omitempty"`
	BlackRemaining int                 `json:"blackRemaining"`
	WhiteRemaining int                 `json:"whiteRemaining"`
	Stake          int                 `json:"stake"`
	PaidRanks      int                 `json:"paidRanks"`
	TurnSeconds    *int                `json:"turnSeconds,omitempty"`
	Winner         string              `json:"winner,omitempty"`
	Settlements    []*SettlementResult `json:"settlements,omitempty"`
	IsGameOver     bool                `json:"isGameOver"`
}

// Response is the response format for this game
type Response struct {
	GameState *GameState `json:"gameState"`

	// PendingWild is only present for the active player while they position
	// a drawn wild
	PendingWild *TileView `json:"pendingWild,omitempty"`
}

func (g *Game) getGameState(viewerID string) *GameState {
	seats := make([]*SeatState, len(g.seats))
	for i, s := range g.seats {
		hand := make([]*TileView, len(s.hand))
		for j, t := range s.hand {
			hand[j] = newTileView(t, s.StableID == viewerID)
		}

		seats[i] = &SeatState{
			PlayerID:        s.StableID,
			SeatIndex:       s.SeatIndex,
			Hand:            hand,
			UnrevealedCount: s.unrevealedCount(),
			FinishRank:      s.finishRank,
			Balance:         s.balance,
			Connected:       s.connected,
			LastPlacedIndex: s.lastPlacedIndex,
		}
	}

	state := &GameState{
		Seats:          seats,
		Phase:          g.phase.String(),
		BlackRemaining: g.piles.Black.Remaining(),
		WhiteRemaining: g.piles.White.Remaining(),
		Stake:          g.options.Stake,
		PaidRanks:      g.options.PaidRanks,
		Winner:         g.winnerID,
		Settlements:    g.settlements,
		IsGameOver:     g.done,
	}

	if active := g.activeSeat(); active != nil && !g.done {
		state.ActivePlayerID = active.StableID
	}

	if !g.turnDeadline.IsZero() {
		seconds := int(time.Until(g.turnDeadline).Seconds())
		if seconds < 0 {
			seconds = 0
		}

		state.TurnSeconds = &seconds
	}

	return state
}

// GetPlayerState returns the state for the given player
func (g *Game) GetPlayerState(stableID string) (*playable.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	response := &Response{
		GameState: g.getGameState(stableID),
	}

	if g.pendingWild != nil {
		if active := g.activeSeat(); active != nil && active.StableID == stableID {
			response.PendingWild = newTileView(g.pendingWild, true)
		}
	}

	return &playable.Response{
		Key:   "game",
		Value: g.Name(),
		Data:  response,
	}, nil
}
