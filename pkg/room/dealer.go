package room

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/account"
	"gamehall-server/pkg/playable"
	"gamehall-server/pkg/room/gamefactory"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

// Dealer is responsible for controlling the game in a single room
// All game mutations happen on the dealer's run loop; the dealer is the only
// goroutine that touches d.game, d.pendingGame, and d.logMessages.
type Dealer struct {
	pitBoss *PitBoss
	room    *account.Room
	ledger  playable.Ledger
	clients map[*Client]bool
	lock    sync.RWMutex
	game    playable.Playable

	logMessages []*playable.LogMessage
	pendingGame *pendingGame
	stopPump    chan bool

	execInRunLoop            chan func()
	execInRunLoopWithClients chan func([]*Client)
	stateChanged             chan state
	close                    chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, room *account.Room, ledger playable.Ledger) *Dealer {
	d := &Dealer{
		pitBoss:                  pitBoss,
		room:                     room,
		ledger:                   ledger,
		clients:                  make(map[*Client]bool),
		execInRunLoop:            make(chan func(), 256),
		execInRunLoopWithClients: make(chan func([]*Client), 256),
		stateChanged:             make(chan state, 256),
		close:                    make(chan bool),
		game:                     nil,
	}

	return d
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"uuid": d.room.UUID,
		"name": d.room.Name,
	})

	// a panic on the run loop means a room invariant no longer holds; the
	// room is torn down rather than left in an unknown state
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("room invariant violated; tearing down room")
			if i, ok := d.game.(playable.Interruptible); ok {
				i.Interrupt()
			}

			d.sendRoomClosed()
			d.pitBoss.DealerCrashed(d)
		}
	}()

	log.Debug("creating dealer run loop")
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendSeatData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendGameEnded()
				d.sendSeatData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case fn := <-d.execInRunLoopWithClients:
			fn(d.Clients())
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d

	// a second tab is not the player coming back
	otherConnection := false
	for c := range d.clients {
		if c.PlayerID() == client.PlayerID() {
			otherConnection = true
			break
		}
	}

	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		if d.game == nil {
			if d.pendingGame != nil {
				client.Send(&playable.Response{Key: "scheduledGame", Data: d.pendingGame})
			}

			return
		}

		// the game decides whether this is a relink or an abandonment
		if r, ok := d.game.(playable.Reconnectable); ok && !otherConnection {
			r.OnReconnect(client.PlayerID())
		}

		d.checkGameEnded()

		if d.game == nil {
			return
		}

		gs, err := d.game.GetPlayerState(client.PlayerID())
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)

	playerStillConnected := false
	for c := range d.clients {
		if c.PlayerID() == client.PlayerID() {
			playerStillConnected = true
			break
		}
	}
	d.lock.Unlock()

	if !playerStillConnected {
		d.execInRunLoop <- func() {
			if d.game == nil {
				return
			}

			if r, ok := d.game.(playable.Reconnectable); ok {
				r.OnDisconnect(client.PlayerID())
			}

			d.checkGameEnded()
		}
	}

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// canStartGame returns true if the client may schedule or terminate games.
// Only the room's creator runs the room.
func (d *Dealer) canStartGame(ctx string, c *Client) bool {
	if c.PlayerID() == d.room.PlayerID {
		return true
	}

	c.Send(newErrorResponse(ctx, errors.New("only the room's creator can do that")))
	return false
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	switch msg.Action {
	case "createGame":
		if !d.canStartGame(msg.Context, c) {
			return
		}

		d.execInRunLoop <- func() {
			if err := d.scheduleGame(c, msg); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(playable.OK(msg.Context))
		}
	case "terminateGame":
		if !d.canStartGame(msg.Context, c) {
			return
		}

		d.execInRunLoop <- func() {
			// the game must drop its timers before the room forgets it
			if i, ok := d.game.(playable.Interruptible); ok {
				i.Interrupt()
			}

			d.stopGamePump()
			d.game = nil
			d.stateChanged <- stateGameEnded
		}

		c.Send(playable.OK(msg.Context))
	default:
		d.execInRunLoop <- func() {
			game := d.game
			if game == nil {
				logrus.WithField("msg", msg).Warn("unknown message")
				return
			}

			action, updateState, err := game.Action(c.PlayerID(), msg)
			if err != nil {
				logrus.WithError(err).WithField("client", c.String()).Debug("could not perform action")
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			if action != nil {
				action.Context = msg.Context
				c.Send(action)
			}

			if updateState {
				d.stateChanged <- stateGameEvent
			}

			d.checkGameEnded()
		}
	}
}

// scheduleGame queues a game to start after the countdown
// NOTE: must only be called from the run loop
func (d *Dealer) scheduleGame(c *Client, msg *playable.PayloadIn) error {
	if d.game != nil {
		return errors.New("a game is already in progress")
	}

	if d.pendingGame != nil {
		return errors.New("a game is already scheduled")
	}

	pg, err := newPendingGame(c, msg)
	if err != nil {
		return err
	}

	d.pendingGame = pg
	d.broadcast(&playable.Response{Key: "scheduledGame", Data: pg})

	go func() {
		select {
		case <-pg.timer.C:
			d.execInRunLoop <- d.createScheduledGame
		case <-d.close:
			pg.timer.Stop()
		}
	}()

	return nil
}

// createScheduledGame starts the pending game
// NOTE: must only be called from the run loop
func (d *Dealer) createScheduledGame() {
	pg := d.pendingGame
	if pg == nil || d.game != nil {
		return
	}

	d.pendingGame = nil

	factory, err := gamefactory.Get(pg.message.Subject)
	if err != nil {
		pg.client.Send(newErrorResponse(pg.message.Context, err))
		return
	}

	seats, err := d.room.GetSeats(context.Background())
	if err != nil {
		pg.client.Send(newErrorResponse(pg.message.Context, err))
		return
	}

	playerSeats := make([]playable.PlayerSeat, 0, len(seats))
	for _, seat := range seats {
		if !seat.Active {
			continue
		}

		playerSeats = append(playerSeats, playable.PlayerSeat{
			StableID: seat.PlayerID,
			Stake:    seat.Stake,
			Balance:  seat.Player.Balance,
		})
	}

	logger := logrus.WithField("uuid", d.room.UUID)
	game, err := factory.CreateGame(logger, playerSeats, d.ledger, pg.message.AdditionalData)
	if err != nil {
		pg.client.Send(newErrorResponse(pg.message.Context, err))
		return
	}

	d.game = game
	d.startGamePump(game)
	d.stateChanged <- stateGameEvent
}

// startGamePump forwards the game's outbound channels onto the run loop
func (d *Dealer) startGamePump(game playable.Playable) {
	stop := make(chan bool)
	d.stopPump = stop

	logChan := game.LogChan()

	var notifChan <-chan *playable.Notification
	if n, ok := game.(playable.Notifier); ok {
		notifChan = n.NotificationChan()
	}

	var changed <-chan struct{}
	if sc, ok := game.(playable.StateChanger); ok {
		changed = sc.StateChangedChan()
	}

	go func() {
		for {
			select {
			case messages := <-logChan:
				d.execInRunLoopWithClients <- func(clients []*Client) {
					d.addLogMessages(messages)
					for _, client := range clients {
						client.Send(&playable.Response{Key: "logs", Data: messages})
					}
				}
			case n := <-notifChan:
				d.execInRunLoopWithClients <- func(clients []*Client) {
					for _, client := range clients {
						if n.Recipient == "" || client.PlayerID() == n.Recipient {
							client.Send(n.Response)
						}
					}
				}
			case <-changed:
				// timer-driven change; the game may also have ended
				d.stateChanged <- stateGameEvent
				d.execInRunLoop <- d.checkGameEnded
			case <-stop:
				return
			case <-d.close:
				return
			}
		}
	}()
}

func (d *Dealer) stopGamePump() {
	if d.stopPump != nil {
		close(d.stopPump)
		d.stopPump = nil
	}
}

// checkGameEnded records a finished game and clears it from the room
// The payouts were already applied by the game through the ledger; the
// record write is bookkeeping and a failure only loses history.
// NOTE: must only be called from the run loop
func (d *Dealer) checkGameEnded() {
	game := d.game
	if game == nil {
		return
	}

	details, isOver := game.GetEndOfGameDetails()
	if !isOver {
		return
	}

	ctx := context.Background()
	record, err := d.room.CreateGame(ctx, game.Name())
	if err != nil {
		logrus.WithError(err).Error("could not create game record")
	} else if err := record.EndGame(ctx, details.Log, details.BalanceAdjustments); err != nil {
		logrus.WithError(err).Error("could not save game record")
	}

	if i, ok := game.(playable.Interruptible); ok {
		i.Interrupt()
	}

	d.stopGamePump()
	d.game = nil
	d.stateChanged <- stateGameEnded
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(res *playable.Response) {
	for _, client := range d.Clients() {
		client.Send(res)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameEnded() {
	d.broadcast(&playable.Response{
		Key: "gameEnded",
	})
}

func (d *Dealer) sendRoomClosed() {
	d.broadcast(&playable.Response{
		Key: "roomClosed",
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	if d.game == nil {
		return
	}

	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.PlayerID())
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendSeatData() {
	seats, err := d.room.GetSeats(context.Background())
	if err != nil {
		logrus.WithField("uuid", d.room.UUID).WithError(err).Error("could not get seats")
		return
	}

	connected := make(map[string]*account.Player)
	for _, client := range d.Clients() {
		connected[client.PlayerID()] = client.player
	}

	csSeats := make(map[string]*clientStateSeat)
	for _, seat := range seats {
		_, isConnected := connected[seat.PlayerID]
		delete(connected, seat.PlayerID)
		csSeats[seat.PlayerID] = &clientStateSeat{
			Seat:        seat,
			IsConnected: isConnected,
			IsSeated:    true,
		}
	}

	for id, player := range connected {
		csSeats[id] = &clientStateSeat{
			Seat: &account.Seat{
				Player:   player,
				PlayerID: id,
				RoomUUID: d.room.UUID,
			},
			IsConnected: true,
			IsSeated:    false,
		}
	}

	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "clientState",
			Data: csSeats,
		})
	}
}
