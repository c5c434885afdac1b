package davinci

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/playable"
	"gamehall-server/pkg/tile"
)

// WildGuessValue is the value a client sends to call a hidden tile as a wild
const WildGuessValue = -1

// Game is a game of Da Vinci
// The mutex serializes turn-timer callbacks against client actions; the
// room's run loop already serializes actions against each other.
type Game struct {
	mu sync.Mutex

	options  Options
	piles    *tile.Piles
	seats    []*Seat
	idToSeat map[string]*Seat

	phase       Phase
	activeIndex int

	// pendingWild is a drawn wild waiting for the owner to position it
	pendingWild *tile.Tile

	lastGuess *guessResult

	// fencing invalidates outstanding timers whenever the phase advances
	fencing      uint64
	turnTimer    *time.Timer
	turnStarted  time.Time
	turnDeadline time.Time

	winnerID    string
	settlements []*SettlementResult
	done        bool

	rnd    *rand.Rand
	ledger playable.Ledger
	logger logrus.FieldLogger

	logChan      chan []*playable.LogMessage
	notifChan    chan *playable.Notification
	stateChanged chan struct{}
}

// NewGame returns a new game of Da Vinci
// The tiles are built and shuffled but not dealt; call Start to deal and
// begin the first turn.
func NewGame(logger logrus.FieldLogger, seats []playable.PlayerSeat, ledger playable.Ledger, opts Options) (*Game, error) {
	if len(seats) < 2 || len(seats) > 4 {
		return nil, PlayerCountError{
			Min: 2,
			Max: 4,
			Got: len(seats),
		}
	}

	if opts.Stake <= 0 {
		return nil, errors.New("stake must be greater than zero")
	}

	if opts.PaidRanks <= 0 {
		return nil, errors.New("paid ranks must be greater than zero")
	}

	// at least one seat has to lose its stake
	if opts.PaidRanks >= len(seats) {
		opts.PaidRanks = len(seats) - 1
	}

	if opts.Values <= 0 {
		opts.Values = tile.DefaultValues
	}

	if handSize(len(seats))*len(seats) > opts.Values*2 {
		return nil, errors.New("not enough tiles for the initial deal")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	piles := tile.NewPiles(opts.Values)
	piles.Shuffle(seed)

	gameSeats := make([]*Seat, len(seats))
	idToSeat := make(map[string]*Seat)
	for i, ps := range seats {
		if _, found := idToSeat[ps.StableID]; found {
			return nil, fmt.Errorf("duplicate player: %s", ps.StableID)
		}

		seat := newSeat(ps.StableID, i, opts.Stake, ps.Balance)
		gameSeats[i] = seat
		idToSeat[ps.StableID] = seat
	}

	g := &Game{
		options:      opts,
		piles:        piles,
		seats:        gameSeats,
		idToSeat:     idToSeat,
		phase:        PhaseInit,
		activeIndex:  -1,
		rnd:          rand.New(rand.NewSource(seed)),
		ledger:       ledger,
		logger:       logger,
		logChan:      make(chan []*playable.LogMessage, 256),
		notifChan:    make(chan *playable.Notification, 256),
		stateChanged: make(chan struct{}, 1),
	}

	return g, nil
}

// Start deals the initial hands and opens the first turn
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseInit {
		return errors.New("the game has already started")
	}

	g.dealInitialHands()
	g.sendLogMessages(newLogMessage("", "A new game of Da Vinci has started with a stake of $%d", g.options.Stake))
	g.advanceTurn()

	return nil
}

// Name returns "davinci"
func (g *Game) Name() string {
	return "davinci"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// NotificationChan returns the channel game events are pushed on
func (g *Game) NotificationChan() <-chan *playable.Notification {
	return g.notifChan
}

// StateChangedChan signals timer-driven state changes
func (g *Game) StateChangedChan() <-chan struct{} {
	return g.stateChanged
}

// Action performs an action
func (g *Game) Action(stableID string, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.idToSeat[stableID]
	if !ok {
		return nil, false, ErrPlayerNotFound
	}

	if g.done {
		return nil, false, ErrGameIsOver
	}

	switch message.Action {
	case "draw":
		if err := g.requireTurn(seat, PhaseDrawing); err != nil {
			return nil, false, err
		}

		color, _ := message.AdditionalData.GetString("color")
		if err := g.drawTile(seat, tile.Color(color)); err != nil {
			return nil, false, err
		}

		return playable.OK(message.Context), true, nil
	case "placeWild":
		if err := g.requireTurn(seat, PhasePlaceWild); err != nil {
			return nil, false, err
		}

		index, ok := message.AdditionalData.GetInt("index")
		if !ok {
			return nil, false, errors.New("missing 'index' parameter")
		}

		g.placeWild(seat, index)
		return playable.OK(message.Context), true, nil
	case "guess":
		if err := g.requireTurn(seat, PhaseGuessing, PhasePostSuccessGuess); err != nil {
			return nil, false, err
		}

		targetID, ok := message.AdditionalData.GetString("player")
		if !ok {
			return nil, false, errors.New("missing 'player' parameter")
		}

		index, ok := message.AdditionalData.GetInt("index")
		if !ok {
			return nil, false, errors.New("missing 'index' parameter")
		}

		value, ok := message.AdditionalData.GetInt("value")
		if !ok {
			return nil, false, errors.New("missing 'value' parameter")
		}

		if err := g.guess(seat, targetID, index, value); err != nil {
			return nil, false, err
		}

		return playable.OK(message.Context), true, nil
	case "stopGuessing":
		if err := g.requireTurn(seat, PhasePostSuccessGuess); err != nil {
			return nil, false, err
		}

		g.sendLogMessages(newLogMessage(seat.StableID, "{} banked the correct guess and passed the turn"))
		g.advanceTurn()
		return playable.OK(message.Context), true, nil
	case "animationDone":
		if g.phase != PhaseAnimatingGuess {
			return nil, false, fmt.Errorf("cannot perform animationDone from the %s phase", g.phase)
		}

		g.processGuessOutcome()
		return playable.OK(message.Context), true, nil
	case "leave":
		if seat.finishRank > 0 {
			return nil, false, ErrPlayerEliminated
		}

		g.sendLogMessages(newLogMessage(seat.StableID, "{} left the game"))
		g.forceEliminate(seat)
		return playable.OK(message.Context), true, nil
	default:
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}
}

// Interrupt aborts the game in place. The turn timer is cancelled, the
// fencing counter invalidates any callback already in flight, and every
// further action fails with ErrGameIsOver. No seat is settled.
func (g *Game) Interrupt() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		return
	}

	g.done = true
	g.setPhase(PhaseGameOver)
	g.sendLogMessages(newLogMessage("", "The game was terminated"))
}

// requireTurn ensures the seat holds the turn, is still alive, and the game
// is in one of the allowed phases
func (g *Game) requireTurn(seat *Seat, phases ...Phase) error {
	if seat.finishRank > 0 {
		return ErrPlayerEliminated
	}

	if g.activeIndex < 0 || g.seats[g.activeIndex] != seat {
		return ErrNotYourTurn
	}

	for _, p := range phases {
		if g.phase == p {
			return nil
		}
	}

	return fmt.Errorf("cannot perform that action from the %s phase", g.phase)
}

// GetEndOfGameDetails returns details at the end of the game
// The balance adjustments were already applied through the ledger; this is
// for the game record only.
func (g *Game) GetEndOfGameDetails() (gameOverDetails *playable.GameOverDetails, isGameOver bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.done {
		return nil, false
	}

	adjustments := make(map[string]int)
	for _, s := range g.seats {
		adjustments[s.StableID] = 0
	}

	for _, res := range g.settlements {
		adjustments[res.PlayerID] = res.Delta
	}

	return &playable.GameOverDetails{
		BalanceAdjustments: adjustments,
		Log:                g.settlements,
	}, true
}

func (g *Game) activeSeat() *Seat {
	if g.activeIndex < 0 || g.activeIndex >= len(g.seats) {
		return nil
	}

	return g.seats[g.activeIndex]
}

func (g *Game) unrankedCount() int {
	count := 0
	for _, s := range g.seats {
		if s.finishRank == 0 {
			count++
		}
	}

	return count
}

func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan != nil {
		g.logChan <- msg
	}
}

// notify queues an event; an empty recipient broadcasts to the room
func (g *Game) notify(recipient string, response *playable.Response) {
	select {
	case g.notifChan <- &playable.Notification{Recipient: recipient, Response: response}:
	default:
		g.logger.Warn("notification channel is full; dropping event")
	}
}

// signalStateChanged nudges the room to push fresh state to every client
func (g *Game) signalStateChanged() {
	select {
	case g.stateChanged <- struct{}{}:
	default:
	}
}
