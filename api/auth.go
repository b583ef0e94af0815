package api

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotAuthenticated rejects game operations from unauthenticated
// connections before they reach the engine.
var ErrNotAuthenticated = errors.New("not authenticated")

// UUIDAuthenticator accepts tokens of the form "<uuid>" or "<uuid>:<name>".
// It stands in for the real credential service, which verifies signed tokens
// outside this process.
type UUIDAuthenticator struct{}

// Authenticate parses the token into a player identity. The display name
// defaults to a short prefix of the id.
func (UUIDAuthenticator) Authenticate(token string) (uuid.UUID, string, error) {
	raw, name, _ := strings.Cut(token, ":")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", ErrNotAuthenticated
	}
	if name == "" {
		name = "player-" + id.String()[:8]
	}
	return id, name, nil
}
