package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/storefront/api"
	"shopmall_back_end/internal/storefront/cart"
	"shopmall_back_end/internal/storefront/storage"
)

type fakeGateway struct {
	requests []PaymentRequest
	err      error
}

func (g *fakeGateway) Authorize(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &PaymentResult{Provider: "fake", TransactionID: "txn-123"}, nil
}

func shippingOK() ShippingDetails {
	return ShippingDetails{
		Name:    "Claire Dupont",
		Email:   "claire@example.com",
		Phone:   "0612345678",
		Address: "12 rue des Lilas",
		City:    "Lyon",
		ZipCode: "69003",
	}
}

func newCartWith(t *testing.T, entries ...cart.Entry) *cart.Store {
	t.Helper()
	s, err := cart.New(storage.NewMemory().Open())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	for _, entry := range entries {
		require.NoError(t, s.Add(entry))
	}
	return s
}

// Backend factice : enregistre la commande reçue et la renvoie avec un id.
func orderServer(t *testing.T, saved *models.Order) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)

		var o models.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&o))
		o.ID = "order_1700000000000_abc123def"
		if o.UserID == "" {
			o.UserID = "guest"
		}
		o.Status = models.OrderStatusPending
		*saved = o

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(o))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSubmitShippingRequiresAllFields(t *testing.T) {
	flow := NewFlow(nil, nil, nil)

	d := shippingOK()
	d.ZipCode = ""
	err := flow.SubmitShipping(d)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Le code postal est obligatoire")
	assert.Equal(t, StepShipping, flow.Step())
}

func TestPayRequiresShippingFirst(t *testing.T) {
	cartStore := newCartWith(t, cart.Entry{ID: "prod-1", Name: "Clavier", Price: 50})
	flow := NewFlow(nil, cartStore, &fakeGateway{})

	_, err := flow.Pay(context.Background())
	require.Error(t, err)
}

func TestPayEmptyCart(t *testing.T) {
	cartStore := newCartWith(t)
	flow := NewFlow(nil, cartStore, &fakeGateway{})
	require.NoError(t, flow.SubmitShipping(shippingOK()))

	_, err := flow.Pay(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panier est vide")
}

func TestPaySuccessClearsCartAndBuildsOrder(t *testing.T) {
	var saved models.Order
	server := orderServer(t, &saved)

	cartStore := newCartWith(t,
		cart.Entry{ID: "prod-1", Name: "Clavier mécanique", Price: 89.90, Category: "electronics"},
		cart.Entry{ID: "prod-2", Name: "Souris sans fil", Price: 25.50, Category: "electronics"},
	)
	totals := cartStore.Totals()

	gateway := &fakeGateway{}
	flow := NewFlow(api.NewClient(server.URL), cartStore, gateway)
	flow.SetUser("user-1")
	require.NoError(t, flow.SubmitShipping(shippingOK()))

	order, err := flow.Pay(context.Background())
	require.NoError(t, err)

	// Le prestataire a reçu le total du panier et une référence marchande.
	require.Len(t, gateway.requests, 1)
	assert.InDelta(t, totals.Total, gateway.requests[0].Amount, 1e-9)
	assert.Regexp(t, `^order_\d+_[a-z0-9]{9}$`, gateway.requests[0].Reference)

	// La commande envoyée reprend les lignes, les montants et le paiement.
	assert.Equal(t, "user-1", saved.UserID)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, "prod-1", saved.Items[0].ProductID)
	assert.InDelta(t, totals.Total, saved.TotalAmount, 1e-9)
	assert.InDelta(t, totals.Tax, saved.Tax, 1e-9)
	require.NotNil(t, saved.PaymentInfo)
	assert.Equal(t, "fake", saved.PaymentInfo.Provider)
	assert.Equal(t, "txn-123", saved.PaymentInfo.TransactionID)

	// Panier vidé seulement après enregistrement réussi.
	assert.Equal(t, 0, cartStore.Count())
	assert.Equal(t, StepReview, flow.Step())
	require.NotNil(t, flow.LastOrder())
	assert.Equal(t, order.ID, flow.LastOrder().ID)
}

func TestPayGatewayDeclineKeepsCart(t *testing.T) {
	cartStore := newCartWith(t, cart.Entry{ID: "prod-1", Name: "Clavier", Price: 50})
	gateway := &fakeGateway{err: errors.New("carte refusée")}
	flow := NewFlow(nil, cartStore, gateway)
	require.NoError(t, flow.SubmitShipping(shippingOK()))

	_, err := flow.Pay(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOrderNotSaved)
	assert.Equal(t, 1, cartStore.Count())
	assert.Equal(t, StepPayment, flow.Step())
}

// Paiement accepté mais enregistrement en échec : l'erreur porte
// ErrOrderNotSaved et la référence, et le panier reste intact.
func TestPayOrderSaveFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"base indisponible"}`))
	}))
	t.Cleanup(server.Close)

	cartStore := newCartWith(t, cart.Entry{ID: "prod-1", Name: "Clavier", Price: 50})
	gateway := &fakeGateway{}
	flow := NewFlow(api.NewClient(server.URL), cartStore, gateway)
	require.NoError(t, flow.SubmitShipping(shippingOK()))

	_, err := flow.Pay(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderNotSaved)
	assert.Contains(t, err.Error(), gateway.requests[0].Reference)
	assert.Equal(t, 1, cartStore.Count())
	assert.Equal(t, StepPayment, flow.Step())
}
