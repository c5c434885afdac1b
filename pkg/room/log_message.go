package room

import (
	"gamehall-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages appends log messages, keeping only the most recent ones
// NOTE: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}
