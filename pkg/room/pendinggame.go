package room

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/playable"
	"gamehall-server/pkg/room/gamefactory"
)

const defaultSecondsUntilStart = time.Second * 10

var secondsUntilStart = getSecondsUntilStart()

type pendingGame struct {
	Name     string    `json:"name"`
	Stake    int       `json:"stake"`
	Start    time.Time `json:"start"`
	PlayerID string    `json:"playerId"`
	client   *Client
	message  *playable.PayloadIn
	timer    *time.Timer
}

func newPendingGame(c *Client, msg *playable.PayloadIn) (*pendingGame, error) {
	factory, err := gamefactory.Get(msg.Subject)
	if err != nil {
		return nil, err
	}

	name, stake, err := factory.Details(msg.AdditionalData)
	if err != nil {
		return nil, err
	}

	start := time.Now().Add(secondsUntilStart)
	timer := time.NewTimer(time.Until(start))

	return &pendingGame{
		client:   c,
		message:  msg,
		Name:     name,
		Stake:    stake,
		Start:    start,
		PlayerID: c.player.ID,
		timer:    timer,
	}, nil
}

// SetStartGameDelay overrides the countdown between scheduling a game and
// starting it
func SetStartGameDelay(d time.Duration) {
	secondsUntilStart = d
}

func getSecondsUntilStart() time.Duration {
	if val := os.Getenv("START_GAME_DELAY"); val != "" {
		delay, err := strconv.Atoi(val)
		if err != nil {
			logrus.WithError(err).Panic("could not parse START_GAME_DELAY")
		}

		return time.Second * time.Duration(delay)
	}

	return defaultSecondsUntilStart
}
