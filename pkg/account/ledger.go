package account

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/db"
)

const ledgerWriteTimeout = time.Second * 10

// PGLedger applies settlement deltas to durable player balances.
// ApplyDelta dispatches the write on its own goroutine: settlement must
// never wait on the database, and a failed write is logged, not retried.
type PGLedger struct {
	logger logrus.FieldLogger
}

// NewPGLedger returns a Postgres-backed ledger
func NewPGLedger(logger logrus.FieldLogger) *PGLedger {
	return &PGLedger{logger: logger}
}

// ApplyDelta adjusts the player's balance by delta
func (l *PGLedger) ApplyDelta(stableID string, delta int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
		defer cancel()

		const query = `
UPDATE players
SET balance = balance + $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

		if _, err := db.Instance().ExecContext(ctx, query, delta, stableID); err != nil {
			l.logger.WithError(err).WithFields(logrus.Fields{
				"player": stableID,
				"delta":  delta,
			}).Error("could not apply balance delta")
		}
	}()
}

// MemLedger is an in-memory ledger for tests
type MemLedger struct {
	mu     sync.Mutex
	Deltas map[string][]int
}

// NewMemLedger returns an empty in-memory ledger
func NewMemLedger() *MemLedger {
	return &MemLedger{Deltas: make(map[string][]int)}
}

// ApplyDelta records the delta synchronously
func (l *MemLedger) ApplyDelta(stableID string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Deltas[stableID] = append(l.Deltas[stableID], delta)
}

// Balance returns the sum of recorded deltas for the player
func (l *MemLedger) Balance(stableID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, d := range l.Deltas[stableID] {
		total += d
	}

	return total
}
