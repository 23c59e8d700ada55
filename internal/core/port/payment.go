package port

import "context"

// PaymentGateway is the payment collaborator. Amount is in minor units.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}
