package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"gamehall-server/pkg/db"
)

// Game is a record in the `games` table
type Game struct {
	ID       int64
	RoomUUID string
	GameType string
	data     interface{}
	Created  time.Time
	Ended    time.Time
}

const gamesColumns = `id, room_uuid, game_type, data, created, ended`

// GameByID returns a game record by its ID
func GameByID(ctx context.Context, id int64) (*Game, error) {
	const query = `
SELECT ` + gamesColumns + `
FROM games
WHERE id = $1`
	row := db.Instance().QueryRowContext(ctx, query, id)
	return gameByRow(row)
}

func gameByRow(row *sql.Row) (*Game, error) {
	var g Game
	var data []byte
	var ended sql.NullTime

	if err := row.Scan(&g.ID, &g.RoomUUID, &g.GameType, &data, &g.Created, &ended); err != nil {
		return nil, err
	}

	if data != nil {
		if err := json.Unmarshal(data, &g.data); err != nil {
			return nil, err
		}
	}

	g.Ended = ended.Time

	return &g, nil
}

// EndGame stores the outcome of a finished game
// This is record-keeping only. The payouts were already applied to player
// balances through the ledger while the game settled each seat; re-applying
// them here would pay everyone twice.
func (g *Game) EndGame(ctx context.Context, data interface{}, balanceAdjustments map[string]int) error {
	record := struct {
		Log         interface{}    `json:"log"`
		Adjustments map[string]int `json:"adjustments"`
	}{
		Log:         data,
		Adjustments: balanceAdjustments,
	}

	b, err := json.Marshal(record)
	if err != nil {
		return err
	}

	const query = `
UPDATE games
SET data = $1, ended = NOW() AT TIME ZONE 'UTC'
WHERE id = $2
RETURNING ended`

	var ended time.Time
	row := db.Instance().QueryRowContext(ctx, query, b, g.ID)
	if err := row.Scan(&ended); err != nil {
		return err
	}

	g.data = record
	g.Ended = ended
	return nil
}
