package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todopro/pkg/auth"
)

type JwtMiddlewareSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *JwtMiddlewareSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET_KEY", "test-jwt-secret-key")

	s.Router = gin.New()
	s.Router.GET("/protected", GinJwtMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})
}

func TestJwtMiddlewareSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(JwtMiddlewareSuite))
}

func (s *JwtMiddlewareSuite) get(authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/protected", nil)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *JwtMiddlewareSuite) TestMissingHeader() {
	rr := s.get("")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *JwtMiddlewareSuite) TestNotBearerScheme() {
	rr := s.get("Basic dXNlcjpwYXNz")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("Invalid authorization format"))
}

func (s *JwtMiddlewareSuite) TestGarbageToken() {
	rr := s.get("Bearer not.a.token")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *JwtMiddlewareSuite) TestExpiredToken() {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	token, _ := expired.SignedString([]byte(os.Getenv("JWT_SECRET_KEY")))

	rr := s.get("Bearer " + token)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *JwtMiddlewareSuite) TestValidTokenResolvesUser() {
	token, err := auth.CreateJwtTokenForUser(7)

	Expect(err).ToNot(HaveOccurred())

	rr := s.get("Bearer " + token)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring(`"user_id":7`))
}

func (s *JwtMiddlewareSuite) TestTokenSignedWithOtherSecret() {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	token, _ := forged.SignedString([]byte("attacker-secret"))

	rr := s.get("Bearer " + token)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}
