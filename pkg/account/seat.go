package account

import (
	"context"
	"time"

	"gamehall-server/pkg/db"
)

const seatColumns = `
players_rooms.id,
players_rooms.player_id,
players_rooms.room_uuid,
players_rooms.stake,
players_rooms.active,
players_rooms.created,
players_rooms.updated`

// Seat represents a row in the players_rooms table
// It records a player's membership in a room and the stake they sat down
// with.
type Seat struct {
	Player    *Player   `json:"player"`
	PlayerID  string    `json:"playerId"`
	RoomUUID  string    `json:"roomUuid"`
	ID        int64     `json:"id"`
	Stake     int       `json:"stake"`
	Active    bool      `json:"active"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

func getSeatByRow(row db.Scanner) (*Seat, error) {
	var p Player
	var s Seat

	if err := row.Scan(&p.ID, &p.DisplayName, &p.Balance, &p.Created, &p.Updated,
		&s.ID, &s.PlayerID, &s.RoomUUID, &s.Stake, &s.Active, &s.Created, &s.Updated); err != nil {
		return nil, err
	}

	s.Player = &p

	return &s, nil
}

// TakeSeat seats the player in the room with the given entry stake
// Taking a seat twice is an upsert on the stake.
func (p *Player) TakeSeat(ctx context.Context, room *Room, stake int) (*Seat, error) {
	if stake <= 0 {
		return nil, UserError("stake must be greater than zero")
	}

	if stake > p.Balance {
		return nil, UserError("stake cannot exceed your balance")
	}

	const query = `
INSERT INTO players_rooms (player_id, room_uuid, stake)
VALUES ($1, $2, $3)
ON CONFLICT (player_id, room_uuid)
DO UPDATE SET stake = $3, active = true, updated = (NOW() AT TIME ZONE 'utc')
RETURNING id, stake, active, created, updated`

	var s Seat
	row := db.Instance().QueryRowContext(ctx, query, p.ID, room.UUID, stake)
	if err := row.Scan(&s.ID, &s.Stake, &s.Active, &s.Created, &s.Updated); err != nil {
		return nil, err
	}

	s.Player = p
	s.PlayerID = p.ID
	s.RoomUUID = room.UUID

	return &s, nil
}

// GetSeat returns the player's seat in the room
func (p *Player) GetSeat(ctx context.Context, room *Room) (*Seat, error) {
	const query = `
SELECT ` + playerColumns + `, ` + seatColumns + `
FROM players_rooms
INNER JOIN players ON players_rooms.player_id = players.id
WHERE players_rooms.player_id = $1
  AND players_rooms.room_uuid = $2`

	row := db.Instance().QueryRowContext(ctx, query, p.ID, room.UUID)
	seat, err := getSeatByRow(row)
	if err != nil {
		return nil, ErrPlayerNotInRoom
	}

	return seat, nil
}

// GetSeats returns every seat in the room in seating order
func (r *Room) GetSeats(ctx context.Context) ([]*Seat, error) {
	const query = `
SELECT ` + playerColumns + `, ` + seatColumns + `
FROM players_rooms
INNER JOIN players ON players_rooms.player_id = players.id
WHERE players_rooms.room_uuid = $1
ORDER BY players_rooms.id`

	rows, err := db.Instance().QueryContext(ctx, query, r.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*Seat, 0)
	for rows.Next() {
		s, err := getSeatByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, s)
	}

	return records, nil
}

// SetActive sets the active state for the seat in the database
// Pre-game departures deactivate the seat; mid-game departures are the
// game's problem, not the store's.
func (s *Seat) SetActive(ctx context.Context, active bool) error {
	const query = `
UPDATE players_rooms
SET active = $1, updated = (NOW() AT TIME ZONE 'UTC')
WHERE id = $2`

	execContext, err := db.Instance().ExecContext(ctx, query, active, s.ID)
	if err != nil {
		return err
	}

	if ra, _ := execContext.RowsAffected(); ra > 0 {
		s.Active = active
	}

	return nil
}
