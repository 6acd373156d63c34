package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("mot de passe très secret")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("mot de passe très secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais mot de passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltedPerCall(t *testing.T) {
	first, err := HashPassword("identique")
	require.NoError(t, err)
	second, err := HashPassword("identique")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

// Les comptes créés avant la migration argon2 gardent un hash bcrypt :
// la vérification doit continuer de les accepter.
func TestVerifyPasswordBcryptLegacy(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("ancien"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(string(legacy)))

	ok, err := VerifyPassword("ancien", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = VerifyPassword("faux", string(legacy))
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("peu importe", "pas-un-hash")
	assert.False(t, ok)
	assert.Error(t, err)
}
