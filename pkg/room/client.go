package room

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/account"
	"gamehall-server/pkg/playable"
)

// Client is a single websocket connection into a room
// The connection ID identifies the socket only; the player's stable ID is
// the identity every game decision keys off of.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// ConnectionID uniquely identifies this connection. A player who
	// reconnects gets a new one.
	ConnectionID string

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	// send is a channel for sending messages to the client
	send chan interface{}

	dealer *Dealer

	player *account.Player
	room   *account.Room
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, player *account.Player, room *account.Room) *Client {
	return &Client{
		Conn:         conn,
		ConnectionID: uuid.New().String(),
		Close:        make(chan string),
		send:         make(chan interface{}, 256),
		player:       player,
		room:         room,
	}
}

// Send sends a message to the web client
// Returns false if the client's buffer is full and the message was dropped.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// PlayerID returns the stable ID of the connected player
func (c *Client) PlayerID() string {
	if c.player == nil {
		return ""
	}

	return c.player.ID
}

// String returns a traceable identifier for the player and room
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.player.ID, c.room.UUID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
