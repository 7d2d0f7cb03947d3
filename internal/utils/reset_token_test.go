package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	token, hash, err := GenerateResetToken()
	require.NoError(t, err)

	// 20 octets aléatoires encodés en hexadécimal.
	assert.Len(t, token, 40)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	// Seule l'empreinte part en base ; elle doit se recalculer depuis le clair.
	assert.Equal(t, HashResetToken(token), hash)
	assert.NotEqual(t, token, hash)

	// Deux générations ne se ressemblent pas.
	other, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashResetTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
	assert.Len(t, HashResetToken("abc"), 64)
}
