package davinci

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamehall-server/pkg/playable"
)

func newLogMessage(stableID string, format string, a ...interface{}) *playable.LogMessage {
	var playerIDs []string
	if stableID != "" {
		playerIDs = []string{stableID}
	}

	return &playable.LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}
