package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todopro/internal/adapter/http/handler"
	"todopro/internal/core/model/response"
	"todopro/internal/core/service"
	"todopro/pkg/api"
	"todopro/pkg/auth"
	"todopro/pkg/logger"
)

// fakeGateway stands in for the upstream payment provider.
type fakeGateway struct {
	clientSecret string
	err          error
	lastAmount   int64
	lastCurrency string
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	f.lastAmount = amount
	f.lastCurrency = currency

	if f.err != nil {
		return "", f.err
	}

	return f.clientSecret, nil
}

type PaymentHandlerSuite struct {
	suite.Suite
	Router  *gin.Engine
	Gateway *fakeGateway
	Token   string
}

func (s *PaymentHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	os.Setenv("JWT_SECRET_KEY", "test-jwt-secret-key")

	s.Gateway = &fakeGateway{clientSecret: "pi_123_secret_456"}

	log, err := logger.New("test")
	s.Require().NoError(err)

	s.Token, _ = auth.CreateJwtTokenForUser(1)

	s.Router = api.SetupRouterForTests(api.HandlersConfig{
		PaymentHandler: handler.NewPaymentHandler(service.NewPaymentService(s.Gateway), nil, log),
	})
}

func TestPaymentHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(PaymentHandlerSuite))
}

func (s *PaymentHandlerSuite) post(body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/stripe/create-payment-intent", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *PaymentHandlerSuite) TestCreatePaymentIntent_Success() {
	rr := s.post(`{"amount": 1999, "currency": "usd"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := response.PaymentIntentResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.ClientSecret).To(Equal("pi_123_secret_456"))
	Expect(s.Gateway.lastAmount).To(Equal(int64(1999)))
	Expect(s.Gateway.lastCurrency).To(Equal("usd"))
}

func (s *PaymentHandlerSuite) TestCreatePaymentIntent_GatewayError() {
	s.Gateway.err = errors.New("card network unavailable")

	rr := s.post(`{"amount": 1999, "currency": "usd"}`)

	Expect(rr.Code).To(Equal(http.StatusBadGateway))

	data := response.ErrorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("UPSTREAM_ERROR"))
}

func (s *PaymentHandlerSuite) TestCreatePaymentIntent_ValidationError() {
	rr := s.post(`{"amount": 0, "currency": "usd"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *PaymentHandlerSuite) TestCreatePaymentIntent_BadCurrency() {
	rr := s.post(`{"amount": 100, "currency": "dollars"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *PaymentHandlerSuite) TestCreatePaymentIntent_RequiresAuth() {
	req, _ := http.NewRequest("POST", "/stripe/create-payment-intent", strings.NewReader(`{"amount": 100, "currency": "usd"}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}
