package gamefactory

import (
	"time"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/playable"
	"gamehall-server/pkg/playable/davinci"
)

type davinciFactory struct{}

func (d davinciFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	opts := getDavinciOptions(additionalData)
	return "Da Vinci", opts.Stake, nil
}

func (d davinciFactory) CreateGame(logger logrus.FieldLogger, seats []playable.PlayerSeat, ledger playable.Ledger, additionalData playable.AdditionalData) (playable.Playable, error) {
	opts := getDavinciOptions(additionalData)

	game, err := davinci.NewGame(logger, seats, ledger, opts)
	if err != nil {
		return nil, err
	}

	if err := game.Start(); err != nil {
		return nil, err
	}

	return game, nil
}

func getDavinciOptions(additionalData playable.AdditionalData) davinci.Options {
	opts := davinci.DefaultOptions()

	if stake, ok := additionalData.GetInt("stake"); ok && stake > 0 {
		opts.Stake = stake
	}

	if paidRanks, ok := additionalData.GetInt("paidRanks"); ok && paidRanks > 0 {
		opts.PaidRanks = paidRanks
	}

	if turnSeconds, ok := additionalData.GetInt("turnSeconds"); ok {
		if turnSeconds >= 15 && turnSeconds <= 300 {
			opts.TurnDuration = time.Second * time.Duration(turnSeconds)
		}
	}

	if colorOrder, ok := additionalData.GetString("colorOrder"); ok {
		if order := davinci.ColorOrder(colorOrder); order == davinci.BlackFirst || order == davinci.WhiteFirst {
			opts.ColorOrder = order
		}
	}

	return opts
}
