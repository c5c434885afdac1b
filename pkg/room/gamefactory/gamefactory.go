package gamefactory

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/playable"
)

var factories = map[string]GameFactory{
	"davinci": davinciFactory{},
}

// GameFactory is a factory for creating games that implement the Playable interface
type GameFactory interface {
	CreateGame(logger logrus.FieldLogger, seats []playable.PlayerSeat, ledger playable.Ledger, additionalData playable.AdditionalData) (playable.Playable, error)
	Details(additionalData playable.AdditionalData) (name string, stake int, err error)
}

// Get returns a factory by the given name
func Get(name string) (GameFactory, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("no factory with name: %s", name)
	}

	return factory, nil
}
