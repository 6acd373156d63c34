package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmall_back_end/internal/storefront/storage"
)

func claire() Account {
	return Account{
		ID:       "user-1",
		Email:    "claire@example.com",
		Name:     "Claire",
		UserType: "customer",
		Token:    "jeton-jwt",
	}
}

func TestCurrentEmptyByDefault(t *testing.T) {
	s, err := New(storage.NewMemory().Open())
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Current())
}

func TestSignInSignOut(t *testing.T) {
	s, err := New(storage.NewMemory().Open())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SignIn(claire()))
	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "claire@example.com", current.Email)
	assert.Equal(t, "jeton-jwt", current.Token)

	require.NoError(t, s.SignOut())
	assert.Nil(t, s.Current())
}

func TestSessionSurvivesReload(t *testing.T) {
	backing := storage.NewMemory()

	first, err := New(backing.Open())
	require.NoError(t, err)
	require.NoError(t, first.SignIn(claire()))
	first.Close()

	second, err := New(backing.Open())
	require.NoError(t, err)
	defer second.Close()

	current := second.Current()
	require.NotNil(t, current)
	assert.Equal(t, "user-1", current.ID)
}

// Une connexion dans un onglet déconnecte ou connecte les autres :
// le changement est relayé par l'observateur du stockage.
func TestSignOutPropagatesAcrossHandles(t *testing.T) {
	backing := storage.NewMemory()

	tabA, err := New(backing.Open())
	require.NoError(t, err)
	defer tabA.Close()

	tabB, err := New(backing.Open())
	require.NoError(t, err)
	defer tabB.Close()

	var lastB *Account
	notified := 0
	tabB.Subscribe(func(account *Account) {
		lastB = account
		notified++
	})

	require.NoError(t, tabA.SignIn(claire()))
	require.Equal(t, 1, notified)
	require.NotNil(t, lastB)
	assert.Equal(t, "Claire", lastB.Name)
	require.NotNil(t, tabB.Current())

	require.NoError(t, tabA.SignOut())
	require.Equal(t, 2, notified)
	assert.Nil(t, lastB)
	assert.Nil(t, tabB.Current())
}

func TestUnsubscribe(t *testing.T) {
	s, err := New(storage.NewMemory().Open())
	require.NoError(t, err)
	defer s.Close()

	calls := 0
	unsubscribe := s.Subscribe(func(*Account) { calls++ })
	unsubscribe()

	require.NoError(t, s.SignIn(claire()))
	assert.Equal(t, 0, calls)
}
