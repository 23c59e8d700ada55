package service

import (
	"context"
	"log/slog"

	"todopro/internal/core/port"
)

// PaymentService is a thin delegation layer over the payment gateway;
// amount and currency are passed through unvalidated and any gateway
// rejection propagates to the caller.
type PaymentService struct {
	gateway port.PaymentGateway
}

func NewPaymentService(gateway port.PaymentGateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

func (ps *PaymentService) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	clientSecret, err := ps.gateway.CreatePaymentIntent(ctx, amount, currency)

	if err != nil {
		slog.Error("Payment#CreatePaymentIntent", "error", err, "currency", currency)
		return "", err
	}

	return clientSecret, nil
}
