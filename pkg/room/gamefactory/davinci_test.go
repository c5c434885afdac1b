package gamefactory

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"gamehall-server/pkg/account"
	"gamehall-server/pkg/playable"
)

func TestGet(t *testing.T) {
	factory, err := Get("davinci")
	assert.NoError(t, err)
	assert.NotNil(t, factory)

	factory, err = Get("omok")
	assert.EqualError(t, err, "no factory with name: omok")
	assert.Nil(t, factory)
}

func TestDavinciFactory_Details(t *testing.T) {
	a := assert.New(t)

	name, stake, err := davinciFactory{}.Details(playable.AdditionalData{})
	a.NoError(err)
	a.Equal("Da Vinci", name)
	a.Equal(100, stake)

	_, stake, err = davinciFactory{}.Details(playable.AdditionalData{"stake": float64(250)})
	a.NoError(err)
	a.Equal(250, stake)
}

func TestDavinciFactory_CreateGame(t *testing.T) {
	a := assert.New(t)

	seats := []playable.PlayerSeat{
		{StableID: "p-1", Stake: 100, Balance: 1000},
		{StableID: "p-2", Stake: 100, Balance: 1000},
	}

	game, err := davinciFactory{}.CreateGame(logrus.StandardLogger(), seats, account.NewMemLedger(), playable.AdditionalData{
		"turnSeconds": float64(60),
	})
	a.NoError(err)
	a.Equal("davinci", game.Name())

	_, err = davinciFactory{}.CreateGame(logrus.StandardLogger(), seats[:1], account.NewMemLedger(), nil)
	a.Error(err)
}

func TestGetDavinciOptions(t *testing.T) {
	a := assert.New(t)

	opts := getDavinciOptions(playable.AdditionalData{
		"stake":       float64(500),
		"paidRanks":   float64(1),
		"turnSeconds": float64(30),
		"colorOrder":  "white-first",
	})

	a.Equal(500, opts.Stake)
	a.Equal(1, opts.PaidRanks)
	a.Equal(time.Second*30, opts.TurnDuration)

	// out-of-range values keep the defaults
	opts = getDavinciOptions(playable.AdditionalData{
		"stake":       float64(-5),
		"turnSeconds": float64(5),
		"colorOrder":  "red-first",
	})

	a.Equal(100, opts.Stake)
	a.Equal(time.Second*45, opts.TurnDuration)
}
