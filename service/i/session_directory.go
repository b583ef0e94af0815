package i

import (
	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/google/uuid"
)

// SessionDirectory is the engine surface the protocol adapter drives. Every
// method is safe for concurrent use; operations on different rooms proceed in
// parallel.
type SessionDirectory interface {
	// Join places a player in a room. roomID == uuid.Nil means
	// join-or-create; an unknown id falls back to the same path.
	Join(playerID uuid.UUID, name, color string, roomID uuid.UUID, abilities []service.Ability) (*service.JoinResult, error)

	// Leave removes a player; disconnects are treated identically.
	Leave(playerID uuid.UUID)

	// SetReady signals readiness and may start the room.
	SetReady(playerID uuid.UUID)

	// Move applies an absolute movement update. Effects are observed via
	// the next snapshot.
	Move(playerID uuid.UUID, pos service.Position, angle float64)

	// UseAbility triggers an ability toward a target position.
	UseAbility(playerID uuid.UUID, abilityID string, target service.Position)

	// StopAll tears down every room at shutdown.
	StopAll()
}
