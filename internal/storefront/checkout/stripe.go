package checkout

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// StripeGateway autorise les paiements via un PaymentIntent Stripe.
// stripe.Key doit être configurée au démarrage.
type StripeGateway struct{}

func (StripeGateway) Authorize(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)), // en centimes
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(req.Email),
	}
	params.Context = ctx
	params.AddMetadata("reference", req.Reference)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}

	return &PaymentResult{
		Provider:      "stripe",
		TransactionID: intent.ID,
	}, nil
}
