package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"todopro/internal/adapter/http/helper"
	"todopro/internal/adapter/http/validation"
	"todopro/internal/core/domain"
	"todopro/internal/core/model/request"
	"todopro/internal/core/port"
	"todopro/pkg/auth"
	"todopro/pkg/telemetry"
)

type AuthHandler struct {
	users   port.UserService
	metrics *telemetry.AppMetrics
}

func NewAuthHandler(users port.UserService, metrics *telemetry.AppMetrics) *AuthHandler {
	return &AuthHandler{
		users:   users,
		metrics: metrics,
	}
}

func (a *AuthHandler) recordOperation(c *gin.Context, operation string) {
	if a.metrics != nil {
		a.metrics.RecordUserOperation(c.Request.Context(), operation)
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	var params request.SignUpRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	user, err := a.users.Register(c.Request.Context(), params.Username, params.Password)

	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			helper.SendBadRequestError(c, "User already exists")
			return
		}

		helper.SendInternalError(c, "Error creating user")
		return
	}

	a.recordOperation(c, "register")
	helper.SendMessage(c, http.StatusCreated, fmt.Sprintf("User %s created successfully", user.Username))
}

func (a *AuthHandler) Login(c *gin.Context) {
	var params request.LoginRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	user, err := a.users.Authenticate(c.Request.Context(), params.Username, params.Password)

	if err != nil {
		helper.SendUnauthorizedError(c, "Invalid username or password")
		return
	}

	token, err := auth.CreateJwtTokenForUser(user.ID)

	if err != nil {
		helper.SendInternalError(c, "Failed to generate access token")
		return
	}

	a.recordOperation(c, "login")
	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
