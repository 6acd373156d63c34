package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmall_back_end/internal/storefront/storage"
)

func keyboard() Entry {
	return Entry{ID: "prod-1", Name: "Clavier mécanique", Price: 89.90, Category: "electronics"}
}

func mouse() Entry {
	return Entry{ID: "prod-2", Name: "Souris sans fil", Price: 25.50, Category: "electronics"}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(storage.NewMemory().Open())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestAddTwiceMergesQuantity(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Add(keyboard()))
	require.NoError(t, s.Add(keyboard()))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, s.Count())
}

func TestAddDistinctProducts(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Add(keyboard()))
	require.NoError(t, s.Add(mouse()))

	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 2, s.Count())
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Add(keyboard()))

	require.NoError(t, s.SetQuantity("prod-1", 0))

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.Count())
}

func TestSetQuantityNegativeRemovesLine(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Add(keyboard()))

	require.NoError(t, s.SetQuantity("prod-1", -3))

	assert.Empty(t, s.Items())
}

func TestTotalsIdentity(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Add(keyboard()))
	require.NoError(t, s.Add(mouse()))
	require.NoError(t, s.SetQuantity("prod-2", 3))

	totals := s.Totals()
	assert.InDelta(t, 89.90+3*25.50, totals.Subtotal, 1e-9)
	assert.Equal(t, float64(13), totals.Tax) // round(166.40 * 0.08)
	assert.Equal(t, float64(0), totals.Shipping)
	assert.InDelta(t, totals.Subtotal+totals.Tax+totals.Shipping, totals.Total, 1e-9)
}

func TestTotalsEmptyCart(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, Totals{}, s.Totals())
}

func TestSubscriberNotifiedOnLocalMutation(t *testing.T) {
	s := newTestStore(t)

	var seen [][]Entry
	unsubscribe := s.Subscribe(func(items []Entry) {
		seen = append(seen, items)
	})
	defer unsubscribe()

	require.NoError(t, s.Add(keyboard()))
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0][0].Quantity)

	require.NoError(t, s.Clear())
	require.Len(t, seen, 2)
	assert.Empty(t, seen[1])
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	unsubscribe := s.Subscribe(func([]Entry) { calls++ })
	require.NoError(t, s.Add(keyboard()))
	unsubscribe()
	require.NoError(t, s.Add(mouse()))

	assert.Equal(t, 1, calls)
}

// Deux paniers sur le même stockage, comme deux onglets : une mutation
// dans l'un est relayée à l'autre par l'observateur du stockage, et
// l'écrivain n'est prévenu que par son propre canal in-process.
func TestExternalWritePropagates(t *testing.T) {
	backing := storage.NewMemory()

	cartA, err := New(backing.Open())
	require.NoError(t, err)
	defer cartA.Close()

	cartB, err := New(backing.Open())
	require.NoError(t, err)
	defer cartB.Close()

	notifiedA := 0
	notifiedB := 0
	cartA.Subscribe(func([]Entry) { notifiedA++ })
	cartB.Subscribe(func([]Entry) { notifiedB++ })

	require.NoError(t, cartA.Add(keyboard()))

	// Les deux côtés voient la mutation, chacun par son canal.
	assert.Equal(t, 1, notifiedA)
	assert.Equal(t, 1, notifiedB)
	assert.Equal(t, 1, cartB.Count())

	require.NoError(t, cartB.Add(keyboard()))
	assert.Equal(t, 2, cartA.Count())
	assert.Equal(t, 2, notifiedA)
}

func TestNewReloadsPersistedCart(t *testing.T) {
	backing := storage.NewMemory()

	first, err := New(backing.Open())
	require.NoError(t, err)
	require.NoError(t, first.Add(keyboard()))
	require.NoError(t, first.Add(keyboard()))
	first.Close()

	second, err := New(backing.Open())
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 2, second.Count())
}
