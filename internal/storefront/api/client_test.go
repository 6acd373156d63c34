package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmall_back_end/internal/models"
)

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Product{{ID: "prod-1", Name: "Clavier"}})
	}))
	defer server.Close()

	products, err := NewClient(server.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod-1", products[0].ID)
}

// Les messages d'erreur du serveur remontent tels quels, avec le statut.
func TestBackendErrorPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Produit introuvable"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetProduct(context.Background(), "inconnu")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Produit introuvable", apiErr.Message)
}

func TestErrorWithoutJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plantage", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListProducts(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}

func TestLoginStoresToken(t *testing.T) {
	var sawAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"message":"Bienvenue, Claire !","user":{"id":"user-1"},"token":"jeton-jwt"}`))
		case "/api/orders/user/user-1":
			sawAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Fatalf("chemin inattendu: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), "claire@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jeton-jwt", resp.Token)

	_, err = client.OrdersByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer jeton-jwt", sawAuth)
}

func TestSearchProductsEscapesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/search", r.URL.Path)
		require.Equal(t, "clavier azerty", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SearchProducts(context.Background(), "clavier azerty")
	require.NoError(t, err)
}
