package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todopro/internal/adapter/http/validation"
	"todopro/internal/core/model/response"
)

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.MessageResponse{Message: message})
}

func SendError(c *gin.Context, statusCode int, code string, message string, errors ...[]response.ValidationError) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:    code,
			Message: message,
		},
	}

	if len(errors) > 0 {
		errorResponse.Error.Errors = errors[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", validationErrors)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func SendForbiddenError(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, "FORBIDDEN", message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, "NOT_FOUND", message)
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func SendBadGatewayError(c *gin.Context, message string) {
	SendError(c, http.StatusBadGateway, "UPSTREAM_ERROR", message)
}
