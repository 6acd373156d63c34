package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/store"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders", GetAllOrders)
	r.GET("/api/orders/user/:userId", GetOrdersByUser)
	r.GET("/api/orders/:id", GetOrderByID)
	r.POST("/api/orders", CreateOrder)
	r.PUT("/api/orders/:id/status", UpdateOrderStatus)
	r.PUT("/api/orders/:id", UpdateOrder)
	r.DELETE("/api/orders/:id", DeleteOrder)
	return r
}

func seedOrders(t *testing.T, orders ...models.Order) *store.MemoryOrders {
	t.Helper()
	m := store.NewMemoryOrders()
	for i := range orders {
		require.NoError(t, m.Create(context.Background(), &orders[i]))
	}
	store.Orders = m
	return m
}

func sampleOrder() models.Order {
	return models.Order{
		ID:     "order_1700000000000_abc123def",
		UserID: "user-1",
		Items: []models.OrderItem{
			{ProductID: "prod-1", Name: "Clavier mécanique", Price: 89.90, Quantity: 1},
		},
		TotalAmount: 97.90,
		Tax:         8,
		Status:      models.OrderStatusPending,
		ShippingAddress: models.ShippingAddress{
			Name:    "Claire Dupont",
			Email:   "claire@example.com",
			Phone:   "0612345678",
			Address: "12 rue des Lilas",
			City:    "Lyon",
			ZipCode: "69003",
		},
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrder(t *testing.T) {
	m := seedOrders(t)

	input := sampleOrder()
	input.ID = "" // généré par le serveur
	w := doJSON(newRouter(), http.MethodPost, "/api/orders", input)

	require.Equal(t, http.StatusCreated, w.Code)
	var o models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Regexp(t, `^order_\d+_[a-z0-9]{9}$`, o.ID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())

	stored, err := m.GetByID(context.Background(), o.ID, "user-1")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

// Sans userId, la commande est acceptée en achat invité.
func TestCreateOrderGuestFallback(t *testing.T) {
	seedOrders(t)

	input := sampleOrder()
	input.ID = ""
	input.UserID = ""
	w := doJSON(newRouter(), http.MethodPost, "/api/orders", input)

	require.Equal(t, http.StatusCreated, w.Code)
	var o models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Equal(t, "guest", o.UserID)
}

func TestCreateOrderRequiresItems(t *testing.T) {
	seedOrders(t)

	input := sampleOrder()
	input.Items = nil
	w := doJSON(newRouter(), http.MethodPost, "/api/orders", input)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Les articles de la commande sont obligatoires")
}

func TestCreateOrderRequiresShippingAddress(t *testing.T) {
	seedOrders(t)

	input := sampleOrder()
	input.ShippingAddress = models.ShippingAddress{}
	w := doJSON(newRouter(), http.MethodPost, "/api/orders", input)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "L'adresse de livraison est obligatoire")
}

func TestGetOrdersByUserNewestFirst(t *testing.T) {
	older := sampleOrder()
	newer := sampleOrder()
	newer.ID = "order_1700000000001_xyz987uvw"
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	seedOrders(t, older, newer)

	w := doJSON(newRouter(), http.MethodGet, "/api/orders/user/user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
}

func TestGetOrderByIDRequiresUserID(t *testing.T) {
	seedOrders(t, sampleOrder())

	w := doJSON(newRouter(), http.MethodGet, "/api/orders/order_1700000000000_abc123def", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Le paramètre userId est requis")
}

func TestUpdateOrderStatus(t *testing.T) {
	seedOrders(t, sampleOrder())

	w := doJSON(newRouter(), http.MethodPut, "/api/orders/order_1700000000000_abc123def/status", gin.H{
		"status": models.OrderStatusShipped,
		"userId": "user-1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var o models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Equal(t, models.OrderStatusShipped, o.Status)
	assert.True(t, o.UpdatedAt.After(o.CreatedAt))
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	m := seedOrders(t, sampleOrder())

	w := doJSON(newRouter(), http.MethodPut, "/api/orders/order_1700000000000_abc123def/status", gin.H{
		"status": "expédiée",
		"userId": "user-1",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Statut invalide")

	stored, err := m.GetByID(context.Background(), "order_1700000000000_abc123def", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

// Mise à jour partielle : id et userId sont immuables, les articles ne
// se modifient pas après création.
func TestUpdateOrderPartial(t *testing.T) {
	seedOrders(t, sampleOrder())

	w := doJSON(newRouter(), http.MethodPut, "/api/orders/order_1700000000000_abc123def", gin.H{
		"userId":      "user-1",
		"shippingFee": 4.99,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var o models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Equal(t, "order_1700000000000_abc123def", o.ID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, 4.99, o.ShippingFee)
	assert.Equal(t, 97.90, o.TotalAmount)
	require.Len(t, o.Items, 1)
}

func TestDeleteOrderReturnsDeleted(t *testing.T) {
	m := seedOrders(t, sampleOrder())

	w := doJSON(newRouter(), http.MethodDelete, "/api/orders/order_1700000000000_abc123def?userId=user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message      string       `json:"message"`
		DeletedOrder models.Order `json:"deletedOrder"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order_1700000000000_abc123def", resp.DeletedOrder.ID)

	_, err := m.GetByID(context.Background(), "order_1700000000000_abc123def", "user-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
