package i

import (
	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/google/uuid"
)

// Authenticator verifies a connection token before any game operation is
// allowed to reach the engine.
type Authenticator interface {
	// Authenticate resolves a token to a player identity. Invalid or
	// expired tokens fail with an error.
	Authenticate(token string) (playerID uuid.UUID, displayName string, err error)
}

// AbilityProvider looks up the abilities a player starts with. Returning an
// empty slice makes the engine fall back to the default starter set.
type AbilityProvider interface {
	StartingAbilities(playerID uuid.UUID) []service.Ability
}
