package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todopro/internal/adapter/http/helper"
	"todopro/internal/adapter/http/middleware"
	"todopro/internal/adapter/http/validation"
	"todopro/internal/core/model/request"
	"todopro/internal/core/model/response"
	"todopro/internal/core/service"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

type PaymentHandler struct {
	svc     *service.PaymentService
	metrics *telemetry.AppMetrics
	Logger  *logger.AppLogger
}

func NewPaymentHandler(svc *service.PaymentService, metrics *telemetry.AppMetrics, log *logger.AppLogger) *PaymentHandler {
	return &PaymentHandler{
		svc:     svc,
		metrics: metrics,
		Logger:  log,
	}
}

// CreatePaymentIntent delegates to the payment gateway; gateway
// rejections propagate to the caller as an upstream failure.
func (p *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.PaymentIntentRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	clientSecret, err := p.svc.CreatePaymentIntent(ctx, params.Amount, params.Currency)

	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordPaymentIntent(ctx, "error")
		}

		p.Logger.Error(ctx, "Failed to create payment intent",
			zap.Error(err),
			zap.Int("user_id", middleware.CurrentUserID(c)),
		)

		helper.SendBadGatewayError(c, "Error creating payment intent")
		return
	}

	if p.metrics != nil {
		p.metrics.RecordPaymentIntent(ctx, "success")
	}

	c.JSON(http.StatusOK, response.PaymentIntentResponse{ClientSecret: clientSecret})
}
