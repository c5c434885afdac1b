package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gamehall-server/pkg/db"
)

const playerColumns = `
players.id,
players.display_name,
players.balance,
players.created,
players.updated`

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

// ErrDuplicateKey happens on a unique constraint violation
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// defaultBalance is the bankroll a brand-new player starts with
const defaultBalance = 1000

// Player is a record in the `players` table
// ID is the player's stable identity; every connection, seat, and payout
// keys off of it.
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Balance     int       `json:"balance"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

func getPlayerByRow(row db.Scanner) (*Player, error) {
	var player Player
	if err := row.Scan(&player.ID, &player.DisplayName, &player.Balance, &player.Created, &player.Updated); err != nil {
		return nil, err
	}

	return &player, nil
}

// GetPlayerByID returns a player based on the stable ID
func GetPlayerByID(ctx context.Context, id string) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE id = $1`

	row := db.Instance().QueryRowContext(ctx, query, id)
	return getPlayerByRow(row)
}

// CreatePlayer creates a new player with a fresh stable ID
func CreatePlayer(ctx context.Context, displayName string) (*Player, error) {
	if displayName == "" {
		return nil, UserError("display name is required")
	}

	const query = `
INSERT INTO players (id, display_name, balance)
VALUES ($1, $2, $3)
RETURNING ` + playerColumns

	id := uuid.New().String()
	row := db.Instance().QueryRowContext(ctx, query, id, displayName, defaultBalance)

	player, err := getPlayerByRow(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqDuplicateKeyErrorCode {
			return nil, ErrDuplicateKey
		}

		return nil, err
	}

	return player, nil
}

// Save will persist any changes made to the player to the database
// The balance is excluded; balance changes only go through the ledger.
func (p *Player) Save(ctx context.Context) error {
	const query = `
UPDATE players
SET display_name = $1,
    updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	_, err := db.Instance().ExecContext(ctx, query, p.DisplayName, p.ID)
	return err
}

// Reload will refresh the data from the database
func (p *Player) Reload(ctx context.Context) error {
	player, err := GetPlayerByID(ctx, p.ID)
	if err != nil {
		return err
	}

	*p = *player
	return nil
}
