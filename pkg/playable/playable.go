package playable

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamehall-server/pkg/tile"
)

// Playable is a game that can be played
type Playable interface {
	// Action performs with a message
	// If playerResponse is not null, that's the response sent directly to the client
	// If updateState is true, it will trigger a state update for all connected clients
	Action(stableID string, message *PayloadIn) (playerResponse *Response, updateState bool, err error)

	// GetPlayerState returns the current state of the game for the player
	GetPlayerState(stableID string) (*Response, error)

	// GetEndOfGameDetails returns the details after a game is over
	// If the game is still in progress, nil will be returned and the second param will be false
	GetEndOfGameDetails() (gameOverDetails *GameOverDetails, isGameOver bool)

	// Name returns the name of the game
	Name() string

	// LogChan should return a channel that a game will send log messages to
	LogChan() <-chan []*LogMessage
}

// Reconnectable is a game that reacts to players dropping and returning mid-game
type Reconnectable interface {
	// OnDisconnect is called when a player's connection goes away
	OnDisconnect(stableID string)

	// OnReconnect is called when a player opens a new connection for a seat
	// that already exists in the game
	OnReconnect(stableID string)
}

// Interruptible is a game the room can abort before its natural end, for
// example when the room's creator terminates it
type Interruptible interface {
	// Interrupt must stop any timers the game holds and refuse further
	// actions. An interrupted game settles nothing.
	Interrupt()
}

// Notifier is a game that emits its own events outside the request/response cycle
type Notifier interface {
	// NotificationChan returns a channel the game sends notifications on
	NotificationChan() <-chan *Notification
}

// StateChanger is a game whose state can change without a client action,
// for example on a turn timer expiring
type StateChanger interface {
	// StateChangedChan signals that clients should be sent fresh state
	StateChangedChan() <-chan struct{}
}

// Notification is an event pushed by the game
// If Recipient is empty, the event is broadcast to every client in the room.
type Notification struct {
	Recipient string
	Response  *Response
}

// PlayerSeat is a player taking part in a game
type PlayerSeat struct {
	StableID string
	Stake    int
	Balance  int
}

// Ledger applies monetary deltas to durable player balances
type Ledger interface {
	// ApplyDelta must not block gameplay. Implementations dispatch the
	// write asynchronously and log failures.
	ApplyDelta(stableID string, delta int)
}

// LogMessage is the format a game should send log messages in
// If PlayerIDs is empty, assume it's a general statement, otherwise the message will be sent like "{player} did X, Y, Z"
type LogMessage struct {
	UUID      string       `json:"uuid"`
	PlayerIDs []string     `json:"playerIds"`
	Tiles     []*tile.Tile `json:"tiles"`
	Message   string       `json:"message"`
	Time      time.Time    `json:"time"`
}

// Response is a container to determine who gets the specified message
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action         string         `json:"action"`
	Subject        string         `json:"subject"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// GameOverDetails provides details on how the game ended
// BalanceAdjustments is record-keeping only; the game already applied the
// deltas through its Ledger.
type GameOverDetails struct {
	BalanceAdjustments map[string]int
	Log                interface{}
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}

// GetBool returns a boolean value for the given key
func (a AdditionalData) GetBool(key string) (bool, bool) {
	boolVal, ok := a[key].(bool)
	if !ok {
		return false, false
	}

	return boolVal, true
}

// GetIntSlice returns a slice of integers
func (a AdditionalData) GetIntSlice(key string) ([]int, bool) {
	switch slice := a[key].(type) {
	case []float64:
		ints := make([]int, len(slice))
		for i, val := range slice {
			ints[i] = int(val)
		}
		return ints, true
	case []interface{}:
		ints := make([]int, len(slice))
		for i, val := range slice {
			floatVal, ok := val.(float64)
			if !ok {
				return nil, false
			}

			ints[i] = int(floatVal)
		}
		return ints, true
	}

	return nil, false
}

// SimpleLogMessage returns a new LogMessage
func SimpleLogMessage(stableID string, format string, a ...interface{}) *LogMessage {
	var playerIDs []string
	if stableID != "" {
		playerIDs = []string{stableID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}

// SimpleLogMessageSlice returns a single log message
func SimpleLogMessageSlice(stableID string, format string, a ...interface{}) []*LogMessage {
	return []*LogMessage{SimpleLogMessage(stableID, format, a...)}
}
