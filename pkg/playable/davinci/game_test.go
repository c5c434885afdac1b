package davinci

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"gamehall-server/pkg/playable"
	"gamehall-server/pkg/snapshot"
	"gamehall-server/pkg/tile"
)

// memLedger records deltas so tests can assert exactly-once settlement
type memLedger struct {
	mu     sync.Mutex
	deltas map[string][]int
}

func newMemLedger() *memLedger {
	return &memLedger{deltas: make(map[string][]int)}
}

func (m *memLedger) ApplyDelta(stableID string, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deltas[stableID] = append(m.deltas[stableID], delta)
}

func testSeats(ids ...string) []playable.PlayerSeat {
	seats := make([]playable.PlayerSeat, len(ids))
	for i, id := range ids {
		seats[i] = playable.PlayerSeat{StableID: id, Stake: 100, Balance: 1000}
	}

	return seats
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 1
	opts.TurnDuration = 0
	return opts
}

type rigSeat struct {
	id   string
	hand []*tile.Tile
}

// rigGame builds a started game with exact hands and empty piles so tests can
// script the guessing phase deterministically
func rigGame(ledger playable.Ledger, rigSeats ...rigSeat) *Game {
	opts := testOptions()

	seats := make([]*Seat, len(rigSeats))
	idToSeat := make(map[string]*Seat)
	for i, rs := range rigSeats {
		s := newSeat(rs.id, i, opts.Stake, 1000)
		s.hand = rs.hand
		seats[i] = s
		idToSeat[rs.id] = s
	}

	return &Game{
		options:      opts,
		piles:        &tile.Piles{Black: tile.NewPile(nil), White: tile.NewPile(nil)},
		seats:        seats,
		idToSeat:     idToSeat,
		phase:        PhaseGuessing,
		activeIndex:  0,
		rnd:          rand.New(rand.NewSource(1)),
		ledger:       ledger,
		logger:       logrus.StandardLogger(),
		logChan:      make(chan []*playable.LogMessage, 256),
		notifChan:    make(chan *playable.Notification, 256),
		stateChanged: make(chan struct{}, 1),
	}
}

func action(name string, data playable.AdditionalData) *playable.PayloadIn {
	return &playable.PayloadIn{
		Action:         name,
		AdditionalData: data,
	}
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	g, err := NewGame(logrus.StandardLogger(), testSeats("a", "b"), nil, testOptions())
	a.NoError(err)
	a.NotNil(g)
	a.Equal("davinci", g.Name())

	_, err = NewGame(logrus.StandardLogger(), testSeats("a"), nil, testOptions())
	a.EqualError(err, "you must have at least two players")

	_, err = NewGame(logrus.StandardLogger(), testSeats("a", "b", "c", "d", "e"), nil, testOptions())
	a.EqualError(err, "you cannot have more than four players")

	_, err = NewGame(logrus.StandardLogger(), testSeats("a", "a"), nil, testOptions())
	a.EqualError(err, "duplicate player: a")

	opts := testOptions()
	opts.Stake = 0
	_, err = NewGame(logrus.StandardLogger(), testSeats("a", "b"), nil, opts)
	a.EqualError(err, "stake must be greater than zero")

	opts = testOptions()
	opts.PaidRanks = 0
	_, err = NewGame(logrus.StandardLogger(), testSeats("a", "b"), nil, opts)
	a.EqualError(err, "paid ranks must be greater than zero")
}

func TestNewGame_paidRanksClampToSeats(t *testing.T) {
	a := assert.New(t)

	// two players under the stock options: one winner, one loser
	g, err := NewGame(logrus.StandardLogger(), testSeats("a", "b"), nil, testOptions())
	a.NoError(err)
	a.Equal(1, g.options.PaidRanks)

	ledger := newMemLedger()
	g, err = NewGame(logrus.StandardLogger(), testSeats("a", "b"), ledger, testOptions())
	a.NoError(err)
	a.NoError(g.Start())

	g.forceEliminate(g.idToSeat["b"])
	a.True(g.done)
	a.Equal([]int{100}, ledger.deltas["a"])
	a.Equal([]int{-100}, ledger.deltas["b"])

	// three players keep their requested two paid ranks
	g, err = NewGame(logrus.StandardLogger(), testSeats("a", "b", "c"), nil, testOptions())
	a.NoError(err)
	a.Equal(2, g.options.PaidRanks)
}

func TestGame_Start(t *testing.T) {
	a := assert.New(t)

	g, err := NewGame(logrus.StandardLogger(), testSeats("a", "b", "c"), nil, testOptions())
	a.NoError(err)
	a.NoError(g.Start())
	a.EqualError(g.Start(), "the game has already started")

	a.Equal(PhaseDrawing, g.phase)
	a.Equal("a", g.activeSeat().StableID)

	for _, s := range g.seats {
		a.Equal(4, len(s.hand))
		for i, tl := range s.hand {
			a.False(tl.Wild, "no wilds in a starting hand")
			a.False(tl.Revealed)

			if i > 0 {
				a.False(tileLess(tl, s.hand[i-1], BlackFirst), "hand must be sorted")
			}
		}
	}

	assertTileConservation(t, g)
}

func TestGame_Start_fourPlayersDealThree(t *testing.T) {
	g, err := NewGame(logrus.StandardLogger(), testSeats("a", "b", "c", "d"), nil, testOptions())
	assert.NoError(t, err)
	assert.NoError(t, g.Start())

	for _, s := range g.seats {
		assert.Equal(t, 3, len(s.hand))
	}

	assertTileConservation(t, g)
}

// assertTileConservation checks every tile exists exactly once across the
// piles, the hands, and the pending wild slot
func assertTileConservation(t *testing.T, g *Game) {
	t.Helper()

	seen := make(map[int]int)
	count := 0

	add := func(tiles []*tile.Tile) {
		for _, tl := range tiles {
			seen[tl.ID]++
			count++
		}
	}

	add(g.piles.Black.Tiles())
	add(g.piles.White.Tiles())
	for _, s := range g.seats {
		add(s.hand)
	}

	if g.pendingWild != nil {
		add([]*tile.Tile{g.pendingWild})
	}

	assert.Equal(t, (g.options.Values+1)*2, count)
	for id, n := range seen {
		assert.Equal(t, 1, n, "tile %d appears %d times", id, n)
	}
}

// assertTileCount checks the piles, the hands, and the pending wild slot
// together hold exactly n tiles, with no tile in two places at once. Rigged
// games use this instead of assertTileConservation because they do not carry
// a full deck.
func assertTileCount(t *testing.T, g *Game, n int) {
	t.Helper()

	seen := make(map[*tile.Tile]bool)
	count := 0

	add := func(tiles []*tile.Tile) {
		for _, tl := range tiles {
			assert.False(t, seen[tl], "tile %s appears twice", tl)
			seen[tl] = true
			count++
		}
	}

	add(g.piles.Black.Tiles())
	add(g.piles.White.Tiles())
	for _, s := range g.seats {
		add(s.hand)
	}

	if g.pendingWild != nil {
		add([]*tile.Tile{g.pendingWild})
	}

	assert.Equal(t, n, count)
}

func TestGame_drawPlacesNumberedTile(t *testing.T) {
	a := assert.New(t)

	g := rigGame(nil,
		rigSeat{"a", []*tile.Tile{nt(tile.Black, 2), nt(tile.White, 8)}},
		rigSeat{"b", []*tile.Tile{nt(tile.Black, 5), nt(tile.White, 5)}},
	)
	g.phase = PhaseDrawing
	g.piles.Black.Add(&tile.Tile{ID: 50, Color: tile.Black, Value: 4})

	resp, update, err := g.Action("a", action("draw", playable.AdditionalData{"color": "black"}))
	a.NoError(err)
	a.True(update)
	a.Equal(playable.OK(), resp)

	a.Equal(PhaseGuessing, g.phase)
	seat := g.idToSeat["a"]
	a.Equal(3, len(seat.hand))
	a.Equal(4, seat.hand[1].Value)
	a.Equal(1, seat.lastPlacedIndex)

	assertTileCount(t, g, 5)
}

func TestGame_drawFallsBackToOtherColor(t *testing.T) {
	a := assert.New(t)

	g := rigGame(nil,
		rigSeat{"a", []*tile.Tile{nt(tile.Black, 2)}},
		rigSeat{"b", []*tile.Tile{nt(tile.Black, 5)}},
	)
	g.phase = PhaseDrawing
	g.piles.White.Add(&tile.Tile{ID: 51, Color: tile.White, Value: 9})

	_, _, err := g.Action("a", action("draw", playable.AdditionalData{"color": "black"}))
	a.NoError(err)
	a.Equal(2, len(g.idToSeat["a"].hand))
	a.Equal(tile.White, g.idToSeat["a"].hand[1].Color)
}

func TestGame_drawWildNeedsPlacement(t *testing.T) {
	a := assert.New(t)

	g := rigGame(nil,
		rigSeat{"a", []*tile.Tile{nt(tile.Black, 2), nt(tile.White, 8)}},
		rigSeat{"b", []*tile.Tile{nt(tile.Black, 5)}},
	)
	g.phase = PhaseDrawing
	g.piles.Black.Add(&tile.Tile{ID: 52, Color: tile.Black, Wild: true})

	_, _, err := g.Action("a", action("draw", playable.AdditionalData{"color": "black"}))
	a.NoError(err)
	a.Equal(PhasePlaceWild, g.phase)
	a.NotNil(g.pendingWild)
	a.Equal(2, len(g.idToSeat["a"].hand))
	assertTileCount(t, g, 4)

	// cannot guess while the wild is in hand
	_, _, err = g.Action("a", action("guess", playable.AdditionalData{"player": "b", "index": float64(0), "value": float64(5)}))
	a.EqualError(err, "cannot perform that action from the placeWild phase")

	_, _, err = g.Action("a", action("placeWild", playable.AdditionalData{"index": float64(0)}))
	a.NoError(err)
	a.Equal(PhaseGuessing, g.phase)
	a.Nil(g.pendingWild)

	seat := g.idToSeat["a"]
	a.Equal(3, len(seat.hand))
	a.True(seat.hand[0].Wild)
	a.Equal(0, seat.lastPlacedIndex)
	assertTileCount(t, g, 4)
}

func TestGame_actionValidation(t *testing.T) {
	a := assert.New(t)

	g := rigGame(nil,
		rigSeat{"a", []*tile.Tile{nt(tile.Black, 2)}},
		rigSeat{"b", []*tile.Tile{nt(tile.Black, 5)}},
	)

	_, _, err := g.Action("nope", action("guess", nil))
	a.Equal(ErrPlayerNotFound, err)

	_, _, err = g.Action("b", action("guess", playable.AdditionalData{"player": "a", "index": float64(0), "value": float64(2)}))
	a.Equal(ErrNotYourTurn, err)

	_, _, err = g.Action("a", action("draw", playable.AdditionalData{"color": "black"}))
	a.EqualError(err, "cannot perform that action from the guessing phase")

	_, _, err = g.Action("a", action("shove", nil))
	a.EqualError(err, "unknown action: shove")

	_, _, err = g.Action("a", action("guess", playable.AdditionalData{"player": "b", "index": float64(0)}))
	a.EqualError(err, "missing 'value' parameter")
}

func TestGame_stateSnapshot(t *testing.T) {
	g := rigGame(nil,
		rigSeat{"a", []*tile.Tile{nt(tile.Black, 2), nt(tile.White, 8)}},
		rigSeat{"b", []*tile.Tile{nt(tile.Black, 5), nt(tile.White, 11)}},
	)

	state, err := g.GetPlayerState("a")
	assert.NoError(t, err)
	snapshot.ValidateSnapshot(t, state, 0)

	state, err = g.GetPlayerState("b")
	assert.NoError(t, err)
	snapshot.ValidateSnapshot(t, state, 0)
}
