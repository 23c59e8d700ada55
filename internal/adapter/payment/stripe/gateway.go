package stripe

import (
	"context"
	"fmt"

	stripelib "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"todopro/internal/core/port"
)

// Gateway creates payment intents through the Stripe API.
type Gateway struct {
	api *client.API
}

func NewGateway(secretKey string) port.PaymentGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Gateway{api: api}
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripelib.PaymentIntentParams{
		Params: stripelib.Params{
			Context: ctx,
		},
		Amount:   stripelib.Int64(amount),
		Currency: stripelib.String(currency),
	}

	intent, err := g.api.PaymentIntents.New(params)

	if err != nil {
		return "", fmt.Errorf("creating payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}
