// Package checkout orchestre le tunnel de commande : livraison,
// paiement, confirmation. Le paiement est autorisé AVANT la création
// de la commande côté serveur ; si l'enregistrement échoue après un
// paiement accepté, l'erreur porte ErrOrderNotSaved et le panier
// n'est PAS vidé.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/storefront/api"
	"shopmall_back_end/internal/storefront/cart"
)

// ErrOrderNotSaved signale un paiement accepté dont la commande n'a
// pas pu être enregistrée. La référence marchande permet le
// rapprochement manuel.
var ErrOrderNotSaved = errors.New("paiement accepté mais commande non enregistrée")

// Step est l'étape courante du tunnel.
type Step int

const (
	StepShipping Step = iota
	StepPayment
	StepReview
)

// ShippingDetails est le formulaire de livraison. Tous les champs
// sont obligatoires.
type ShippingDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	ZipCode string
}

// Validate retourne la liste des champs manquants, en français comme
// le reste des messages utilisateur.
func (d ShippingDetails) Validate() []string {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "Le nom est obligatoire")
	}
	if d.Email == "" {
		missing = append(missing, "L'email est obligatoire")
	}
	if d.Phone == "" {
		missing = append(missing, "Le téléphone est obligatoire")
	}
	if d.Address == "" {
		missing = append(missing, "L'adresse est obligatoire")
	}
	if d.City == "" {
		missing = append(missing, "La ville est obligatoire")
	}
	if d.ZipCode == "" {
		missing = append(missing, "Le code postal est obligatoire")
	}
	return missing
}

// PaymentRequest est la demande d'autorisation envoyée au prestataire.
type PaymentRequest struct {
	Amount    float64
	Currency  string
	Reference string
	Email     string
}

// PaymentResult est l'autorisation retournée par le prestataire.
type PaymentResult struct {
	Provider      string
	TransactionID string
}

// PaymentGateway autorise un paiement auprès d'un prestataire.
type PaymentGateway interface {
	Authorize(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// Flow est une session de checkout sur le panier courant.
type Flow struct {
	api     *api.Client
	cart    *cart.Store
	gateway PaymentGateway

	step      Step
	shipping  ShippingDetails
	userID    string
	lastOrder *models.Order
}

func NewFlow(client *api.Client, cartStore *cart.Store, gateway PaymentGateway) *Flow {
	return &Flow{
		api:     client,
		cart:    cartStore,
		gateway: gateway,
	}
}

// SetUser associe le client connecté ; sans appel, achat invité.
func (f *Flow) SetUser(userID string) {
	f.userID = userID
}

func (f *Flow) Step() Step {
	return f.step
}

// LastOrder retourne la commande confirmée de l'étape Review.
func (f *Flow) LastOrder() *models.Order {
	return f.lastOrder
}

// SubmitShipping valide le formulaire de livraison et passe à l'étape
// paiement.
func (f *Flow) SubmitShipping(d ShippingDetails) error {
	if missing := d.Validate(); len(missing) > 0 {
		return fmt.Errorf("livraison incomplète: %v", missing)
	}
	f.shipping = d
	f.step = StepPayment
	return nil
}

// newReference reprend le format des identifiants de commande :
// order_<timestamp>_<suffixe aléatoire>.
func newReference() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = charset[rand.Intn(len(charset))]
	}
	return fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), suffix)
}

// Pay autorise le paiement du total du panier puis enregistre la
// commande. Le panier n'est vidé qu'une fois la commande enregistrée.
func (f *Flow) Pay(ctx context.Context) (*models.Order, error) {
	if f.step != StepPayment {
		return nil, errors.New("l'étape livraison doit être validée d'abord")
	}

	items := f.cart.Items()
	if len(items) == 0 {
		return nil, errors.New("le panier est vide")
	}

	totals := f.cart.Totals()
	reference := newReference()

	result, err := f.gateway.Authorize(ctx, PaymentRequest{
		Amount:    totals.Total,
		Currency:  "eur",
		Reference: reference,
		Email:     f.shipping.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("autorisation du paiement refusée: %w", err)
	}

	order := models.Order{
		UserID:      f.userID,
		TotalAmount: totals.Total,
		Tax:         totals.Tax,
		ShippingFee: totals.Shipping,
		ShippingAddress: models.ShippingAddress{
			Name:    f.shipping.Name,
			Email:   f.shipping.Email,
			Phone:   f.shipping.Phone,
			Address: f.shipping.Address,
			City:    f.shipping.City,
			ZipCode: f.shipping.ZipCode,
		},
		PaymentInfo: &models.PaymentInfo{
			Provider:      result.Provider,
			TransactionID: result.TransactionID,
			Reference:     reference,
			Amount:        totals.Total,
		},
	}
	for _, entry := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: entry.ID,
			Name:      entry.Name,
			Price:     entry.Price,
			Quantity:  entry.Quantity,
			Category:  entry.Category,
			Image:     entry.Image,
		})
	}

	created, err := f.api.CreateOrder(ctx, order)
	if err != nil {
		// ⚠️ Le client a été débité : on garde le panier et la
		// référence pour permettre une reprise.
		return nil, fmt.Errorf("%w (référence %s): %v", ErrOrderNotSaved, reference, err)
	}

	if err := f.cart.Clear(); err != nil {
		return created, err
	}

	f.lastOrder = created
	f.step = StepReview
	return created, nil
}
