package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gamehall-server/pkg/db"
	"gamehall-server/pkg/token"
)

const joinCodeLength = 6

const roomColumns = `
rooms.uuid,
rooms.name,
rooms.player_id,
rooms.join_code,
rooms.created`

// ErrPlayerNotInRoom happens when the player has not taken a seat in the room
var ErrPlayerNotInRoom = errors.New("player is not a member of the room")

// Room represents a game room
// A room seats up to a handful of players and can host many games over its
// lifetime.
type Room struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	// PlayerID is who created the room
	PlayerID string    `json:"playerId"`
	JoinCode string    `json:"joinCode"`
	Created  time.Time `json:"created"`
}

// CreateRoom creates a new room owned by the player
func (p *Player) CreateRoom(ctx context.Context, name string) (*Room, error) {
	if name == "" {
		return nil, UserError("room name is required")
	}

	joinCode, err := token.Generate(joinCodeLength)
	if err != nil {
		return nil, err
	}

	u := uuid.New().String()
	const query = `
INSERT INTO rooms (uuid, name, player_id, join_code)
VALUES ($1, $2, $3, $4)
RETURNING created`

	var created time.Time
	row := db.Instance().QueryRowContext(ctx, query, u, name, p.ID, joinCode)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}

	return &Room{
		UUID:     u,
		Name:     name,
		PlayerID: p.ID,
		JoinCode: joinCode,
		Created:  created,
	}, nil
}

func getRoomByRow(row db.Scanner) (*Room, error) {
	var r Room
	if err := row.Scan(&r.UUID, &r.Name, &r.PlayerID, &r.JoinCode, &r.Created); err != nil {
		return nil, err
	}

	return &r, nil
}

// GetRoomByUUID returns a room by its UUID
func GetRoomByUUID(ctx context.Context, uuid string) (*Room, error) {
	const query = `
SELECT ` + roomColumns + `
FROM rooms
WHERE uuid = $1`

	row := db.Instance().QueryRowContext(ctx, query, uuid)
	return getRoomByRow(row)
}

// GetRoomByJoinCode returns a room by its join code
func GetRoomByJoinCode(ctx context.Context, joinCode string) (*Room, error) {
	const query = `
SELECT ` + roomColumns + `
FROM rooms
WHERE join_code = $1`

	row := db.Instance().QueryRowContext(ctx, query, joinCode)
	return getRoomByRow(row)
}

// CreateGame will create a new game record for the room
func (r *Room) CreateGame(ctx context.Context, gameType string) (*Game, error) {
	const query = `
INSERT INTO games (room_uuid, game_type)
VALUES ($1, $2)
RETURNING ` + gamesColumns

	row := db.Instance().QueryRowContext(ctx, query, r.UUID, gameType)
	return gameByRow(row)
}

// GetGamesCount returns the number of games played in the room
func (r *Room) GetGamesCount(ctx context.Context) (int64, error) {
	const query = `
SELECT COUNT(id)
FROM games
WHERE room_uuid = $1`

	var count int64
	if err := db.Instance().QueryRowContext(ctx, query, r.UUID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
