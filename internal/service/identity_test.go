package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScope_AccountWinsOverToken(t *testing.T) {
	accountID := uint(42)

	scope, minted, err := ResolveScope(&accountID, uuid.NewString())
	require.NoError(t, err)

	assert.Empty(t, minted)
	id, ok := scope.AccountID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestResolveScope_MintsTokenWhenAbsent(t *testing.T) {
	scope, minted, err := ResolveScope(nil, "")
	require.NoError(t, err)

	require.NotEmpty(t, minted)
	_, parseErr := uuid.Parse(minted)
	assert.NoError(t, parseErr)

	token, ok := scope.Token()
	assert.True(t, ok)
	assert.Equal(t, minted, token)
}

func TestResolveScope_ReusesValidToken(t *testing.T) {
	existing := uuid.NewString()

	scope, minted, err := ResolveScope(nil, existing)
	require.NoError(t, err)

	assert.Empty(t, minted)
	token, ok := scope.Token()
	assert.True(t, ok)
	assert.Equal(t, existing, token)
}

func TestResolveScope_RejectsMalformedToken(t *testing.T) {
	_, _, err := ResolveScope(nil, "not-a-uuid")
	assert.ErrorIs(t, err, ErrMalformedSessionToken)
}
