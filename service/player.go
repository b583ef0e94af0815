package service

import (
	"time"

	"github.com/google/uuid"
)

// PlayerStatus tracks where a player is in their room life-cycle. Dead and
// Finished are terminal for the remainder of the room.
type PlayerStatus string

const (
	StatusAlive      PlayerStatus = "alive"
	StatusDead       PlayerStatus = "dead"
	StatusFinished   PlayerStatus = "finished"
	StatusSpectating PlayerStatus = "spectating"
)

// Position is a continuous coordinate in grid units. The cell a position
// occupies is (floor(X), floor(Y)); cell centers sit at (x+0.5, y+0.5).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ability is something a player can trigger during a race. Only "teleport"
// has server-side mechanics; the rest only track their cooldown.
type Ability struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CooldownMs int64  `json:"cooldownMs"`
}

// cooldown returns the ability's cooldown as a duration.
func (a Ability) cooldown() time.Duration {
	return time.Duration(a.CooldownMs) * time.Millisecond
}

// Player is the per-room state of one connected player. A Player is owned
// exclusively by its Room; all access goes through room operations.
type Player struct {
	ID                uuid.UUID
	Name              string
	Color             string
	Pos               Position
	Angle             float64
	Lives             int
	CheckpointsPassed int
	Status            PlayerStatus
	Abilities         []Ability

	cooldowns      map[string]time.Time // ability id -> ready-again timestamp
	lastCheckpoint Position             // respawn target after an obstacle hit
	ready          bool
}

// NewPlayer constructs a player spawned at the given position.
func NewPlayer(id uuid.UUID, name, color string, spawn Position, lives int, abilities []Ability) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		Color:          color,
		Pos:            spawn,
		Lives:          lives,
		Status:         StatusAlive,
		Abilities:      abilities,
		cooldowns:      make(map[string]time.Time),
		lastCheckpoint: spawn,
	}
}

// ability looks up an owned ability by id.
func (p *Player) ability(id string) (Ability, bool) {
	for _, a := range p.Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return Ability{}, false
}
