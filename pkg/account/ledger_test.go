package account

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gamehall-server/pkg/playable"
)

func TestMemLedger(t *testing.T) {
	a := assert.New(t)

	l := NewMemLedger()
	l.ApplyDelta("p-1", 100)
	l.ApplyDelta("p-1", -25)
	l.ApplyDelta("p-2", -100)

	a.Equal(75, l.Balance("p-1"))
	a.Equal(-100, l.Balance("p-2"))
	a.Equal(0, l.Balance("p-3"))
	a.Equal([]int{100, -25}, l.Deltas["p-1"])
}

func TestUserError(t *testing.T) {
	err := UserError("something the user did")
	assert.Equal(t, "something the user did", err.Error())
}

var _ playable.Ledger = (*PGLedger)(nil)
var _ playable.Ledger = (*MemLedger)(nil)
