package order

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/store"
	"shopmall_back_end/internal/utils"
)

// GetAllOrders renvoie toutes les commandes (admin), les plus récentes
// en premier.
func GetAllOrders(c *gin.Context) {
	orders, err := store.Orders.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func GetOrdersByUser(c *gin.Context) {
	orders, err := store.Orders.GetByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID exige la clé de partition (?userId=) : une commande ne se
// lit que dans sa partition.
func GetOrderByID(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre userId est requis"})
		return
	}

	o, err := store.Orders.GetByID(c.Request.Context(), c.Param("id"), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// newOrderID reprend le format du widget de paiement :
// order_<timestamp>_<suffixe aléatoire>. Pas vérifié unique côté serveur.
func newOrderID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = charset[rand.Intn(len(charset))]
	}
	return fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), suffix)
}

// CreateOrder enregistre une commande. L'achat invité est accepté :
// sans userId, la commande part dans la partition "guest".
func CreateOrder(c *gin.Context) {
	var o models.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(o.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les articles de la commande sont obligatoires"})
		return
	}
	if o.ShippingAddress == (models.ShippingAddress{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'adresse de livraison est obligatoire"})
		return
	}

	o.ID = newOrderID()
	if o.UserID == "" {
		o.UserID = "guest"
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	if err := store.Orders.Create(c.Request.Context(), &o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 📤 Confirmation par email, sans bloquer la réponse
	go func(o models.Order) {
		if err := utils.SendOrderConfirmationEmail(o); err != nil {
			log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", o.ID, err)
		}
	}(o)

	c.JSON(http.StatusCreated, o)
}

// UpdateOrderStatus est l'unique transition autorisée après création :
// le statut, validé contre l'énumération fixe.
func UpdateOrderStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le statut est requis"})
		return
	}
	if input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre userId est requis"})
		return
	}
	if !models.IsValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
		return
	}

	ctx := c.Request.Context()
	o, err := store.Orders.GetByID(ctx, c.Param("id"), input.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	o.Status = input.Status
	o.UpdatedAt = time.Now().UTC()

	if err := store.Orders.Replace(ctx, o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateOrder applique une mise à jour partielle champ par champ.
// id et userId (clé de partition) sont immuables.
func UpdateOrder(c *gin.Context) {
	var input struct {
		UserID          string                  `json:"userId"`
		TotalAmount     *float64                `json:"totalAmount"`
		Tax             *float64                `json:"tax"`
		ShippingFee     *float64                `json:"shippingFee"`
		Status          *string                 `json:"status"`
		ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
		PaymentInfo     *models.PaymentInfo     `json:"paymentInfo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre userId est requis"})
		return
	}

	ctx := c.Request.Context()
	o, err := store.Orders.GetByID(ctx, c.Param("id"), input.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if input.TotalAmount != nil {
		o.TotalAmount = *input.TotalAmount
	}
	if input.Tax != nil {
		o.Tax = *input.Tax
	}
	if input.ShippingFee != nil {
		o.ShippingFee = *input.ShippingFee
	}
	if input.Status != nil {
		if !models.IsValidOrderStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
			return
		}
		o.Status = *input.Status
	}
	if input.ShippingAddress != nil {
		o.ShippingAddress = *input.ShippingAddress
	}
	if input.PaymentInfo != nil {
		o.PaymentInfo = input.PaymentInfo
	}
	o.UpdatedAt = time.Now().UTC()

	if err := store.Orders.Replace(ctx, o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

func DeleteOrder(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre userId est requis"})
		return
	}

	o, err := store.Orders.Delete(c.Request.Context(), c.Param("id"), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Commande supprimée",
		"deletedOrder": o,
	})
}
