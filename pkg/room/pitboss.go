package room

import (
	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/playable"
)

// PitBoss is responsible for dispatching players to rooms
// It owns the room UUID to dealer registry; dealers are created on the first
// connection and destroyed with the last.
type PitBoss struct {
	dealers    map[string]*Dealer
	ledger     playable.Ledger
	connect    chan *Client
	disconnect chan *Client
	crashed    chan *Dealer
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(ledger playable.Ledger) *PitBoss {
	return &PitBoss{
		dealers:    make(map[string]*Dealer),
		ledger:     ledger,
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		crashed:    make(chan *Dealer, 16),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.room.UUID]
			if !found {
				dealer = NewDealer(p, client.room, p.ledger)
				dealer.StartShift()
				p.dealers[client.room.UUID] = dealer
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.room.UUID]
			if !found {
				logrus.WithField("uuid", client.room.UUID).WithField("type", "exception").Error("room not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.room.UUID)
			}
		case dealer := <-p.crashed:
			logrus.WithField("uuid", dealer.room.UUID).Error("removing crashed dealer")
			if p.dealers[dealer.room.UUID] == dealer {
				delete(p.dealers, dealer.room.UUID)
			}

			for _, client := range dealer.Clients() {
				select {
				case client.Close <- "room closed":
				default:
				}
			}
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// DealerCrashed is called by a dealer whose run loop hit an invariant
// violation and cannot continue
func (p *PitBoss) DealerCrashed(dealer *Dealer) {
	p.crashed <- dealer
}
