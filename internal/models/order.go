package models

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses liste les statuts acceptés par l'endpoint de
// transition de statut.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	Tax             float64         `json:"tax"`
	ShippingFee     float64         `json:"shippingFee"`
	Status          string          `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentInfo     *PaymentInfo    `json:"paymentInfo,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem est une ligne de commande. La liste est figée à la création :
// aucun handler ne modifie les lignes après coup.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category,omitempty"`
	Image     string  `json:"image,omitempty"`
}

type ShippingAddress struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// PaymentInfo conserve la référence de transaction du prestataire de
// paiement, telle que renvoyée par son widget.
type PaymentInfo struct {
	Provider      string  `json:"provider,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}
