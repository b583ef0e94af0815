package service

import "github.com/google/uuid"

// The starter kit handed to players whose ability lookup comes back empty.
// Only teleport moves the player; the others are acknowledged stubs that
// still respect their cooldowns.
var defaultAbilities = []Ability{
	{ID: "teleport", Name: "Teleport", CooldownMs: 5000},
	{ID: "dash", Name: "Dash", CooldownMs: 3000},
	{ID: "shield", Name: "Shield", CooldownMs: 8000},
}

// DefaultAbilities returns a fresh copy of the starter ability set.
func DefaultAbilities() []Ability {
	out := make([]Ability, len(defaultAbilities))
	copy(out, defaultAbilities)
	return out
}

// StaticAbilityProvider serves the default starter set for every player. It
// stands in for the persistent ability store, which lives outside the engine.
type StaticAbilityProvider struct{}

// StartingAbilities returns the starter set regardless of player.
func (StaticAbilityProvider) StartingAbilities(uuid.UUID) []Ability {
	return DefaultAbilities()
}
