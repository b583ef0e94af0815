package api

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	auth := UUIDAuthenticator{}
	id := uuid.New()

	gotID, name, err := auth.Authenticate(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "player-"+id.String()[:8], name)

	gotID, name, err = auth.Authenticate(id.String() + ":ada")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "ada", name)

	_, _, err = auth.Authenticate("not-a-token")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, _, err = auth.Authenticate("")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
